package models

// Choice is one allowed value of an enumerated product attribute.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Enumeration names used by the `choice` validation tag.
const (
	ChoicesPurpose        = "purpose"
	ChoicesForWhom        = "for_whom"
	ChoicesLengthCategory = "length_category"
	ChoicesFeatherColor   = "feather_color"
	ChoicesBirdSpecies    = "bird_species"
	ChoicesMetalColor     = "metal_color"
	ChoicesClaspType      = "clasp_type"
)

var enumerations = map[string][]Choice{
	ChoicesPurpose: {
		{"kolczyki_para", "Do ucha - kolczyki (para)"},
		{"kolczyki_asymetria", "Do ucha - kolczyki (asymetria)"},
		{"kolczyki_single", "Do ucha - kolczyki (single)"},
		{"kolczyki_komplet", "Do ucha - kolczyki (komplet z wisiorkiem)"},
		{"zausznice", "Zausznice"},
		{"na_szyje", "Na szyję"},
		{"na_reke", "Na rękę"},
		{"do_wlosow", "Do włosów"},
		{"inne", "Inne"},
	},
	ChoicesForWhom: {
		{"dla_niej", "Dla niej"},
		{"dla_niego", "Dla niego"},
		{"unisex", "Unisex"},
	},
	ChoicesLengthCategory: {
		{"krotkie", "Krótkie"},
		{"srednie", "Średnie"},
		{"dlugie", "Długie"},
		{"bardzo_dlugie", "Bardzo długie"},
	},
	ChoicesFeatherColor: {
		{"bezowy", "Beżowy"},
		{"bialy", "Biały"},
		{"brazowy", "Brązowy"},
		{"czerwony", "Czerwony"},
		{"czarny", "Czarny"},
		{"granatowy", "Granatowy"},
		{"niebieski", "Niebieski"},
		{"rozowy", "Różowy"},
		{"szary", "Szary"},
		{"turkusowy", "Turkusowy"},
		{"wzor", "Wzór"},
		{"zolty", "Żółty"},
		{"wielokolorowe", "Wielokolorowe"},
	},
	ChoicesBirdSpecies: {
		{"bazant", "Bażant"},
		{"emu", "Emu"},
		{"gawron", "Gawron"},
		{"indyk", "Indyk"},
		{"kura_kogut", "Kura lub kogut"},
		{"papuga", "Papuga"},
		{"paw", "Paw"},
		{"perlica", "Perlica"},
		{"inny", "Inny"},
	},
	ChoicesMetalColor: {
		{"zloty", "Złoty"},
		{"srebrny", "Srebrny"},
		{"mieszany", "Mieszany"},
		{"inny", "Inny"},
	},
	ChoicesClaspType: {
		{"bigiel_otwarty", "Bigiel otwarty"},
		{"bigiel_zamkniety", "Bigiel zamknięty"},
		{"sztyft", "Sztyft"},
		{"kolko", "Kółko"},
		{"klips", "Klips"},
		{"zausznik", "Zausznik"},
		{"inny", "Inny"},
		{"nie_dotyczy", "Nie dotyczy"},
	},
}

// Choices returns the allowed values of the named enumeration.
func Choices(name string) []Choice {
	return enumerations[name]
}

// IsChoice reports whether value belongs to the named enumeration.
func IsChoice(name, value string) bool {
	for _, c := range enumerations[name] {
		if c.Value == value {
			return true
		}
	}
	return false
}
