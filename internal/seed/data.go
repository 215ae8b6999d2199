package seed

import (
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
)

// Category es una categoría de la carta inicial con sus hijos.
type Category struct {
	Name          string
	Emoji         string
	Section       menu.Section
	Subcategories []string
	Items         []Item
}

// Item es un plato o bebida. Subcategory vacía lo deja directo en la categoría.
type Item struct {
	Name        string
	Description string
	Subcategory string
	Type        string
	Kind        pricing.Type
	Price       pricing.Payload
	Tags        []string
}

func simple(name, price, description string, tags ...string) Item {
	return Item{Name: name, Description: description, Kind: pricing.TypeSimple, Price: pricing.Payload{Simple: price}, Tags: tags}
}

func textual(name, text, description string, tags ...string) Item {
	return Item{Name: name, Description: description, Kind: pricing.TypeRange, Price: pricing.Payload{Range: text}, Tags: tags}
}

// Las birre alla spina con "–" no se sirven en piccola.
func draft(name, style, small, pinta string) Item {
	return Item{
		Name: name,
		Type: style,
		Kind: pricing.TypeMultiple,
		Price: pricing.Payload{Multiple: map[string]string{
			pricing.SizeSmall: small,
			pricing.SizePinta: pinta,
		}},
		Tags: []string{"birre-spina"},
	}
}

func in(subcategory, tag string, items ...Item) []Item {
	for index := range items {
		items[index].Subcategory = subcategory
		items[index].Tags = append(items[index].Tags, tag)
	}
	return items
}

func concat(groups ...[]Item) []Item {
	var all []Item
	for _, group := range groups {
		all = append(all, group...)
	}
	return all
}

// DefaultMenu es la carta con la que abre el local.
func DefaultMenu() []Category {
	return []Category{
		{
			Name:    "Hamburger",
			Emoji:   "🍔",
			Section: menu.SectionHamburger,
			Items: []Item{
				simple("HISTORIC", "€11,90", "Cheddar, pomodoro, lattuga in foglia, cipolla, cetriolini, ketchup, maionese", "popular"),
				simple("CHEESE", "€12,50", "Doppio cheddar, iceberg trifolata, pomodoro, maionese, ketchup"),
				simple("NY BACON", "€12,90", "Cheddar, crispy onion, bacon, lattuga, pomodoro, salsa BBQ"),
				simple("TRIPLETTA GODI TRE VOLTE!", "€19,90", "3 hamburger, 3 cheese, 3 salsa tennis, 3 cipolla, 3 salad, 3 pomodoro", "special"),
				simple("SLALOM GIGANTE", "€14,90", "Provola affumicata, crema di tartufo, funghetti, uovo al tegame, speck, iceberg, maionese"),
				simple("MIKE TYSON", "€14,90", "Fagioli Tex Mex piccanti, provola, insalata filangè, jalapeños, cipolla rossa, salsa rafano, salsa tennis"),
				simple("INDIAN CHEESE", "€13,90", "Cheddar, blu cheese dressing, cipolla caramellata, iceberg"),
				simple("VEGGIE BURGER", "€12,90", "Hamburger vegetale, avocado, ranch, pomodoro, iceberg, cipolla caramellata"),
				simple("PULLED PORK BURGER", "€11,50", "Pulled pork, burro, lattuga, carote filangè, cipolla cruda, yogurt, maionese, glassa BBQ piccante"),
			},
		},
		{
			Name:    "Food",
			Emoji:   "🍽️",
			Section: menu.SectionFood,
			Items: []Item{
				simple("Mini Arrosticini Texani (5 pz)", "€5,00", "", "mini-piatti"),
				textual("Patate American Graffiti", "€5,00 / €6,00", "Patate fritte con cheddar, crispy bacon, cipolla rossa cruda", "mini-piatti"),
				simple("Onion Rings (5 pz)", "€5,00", "", "mini-piatti"),
				simple("Chicken Wings (5 pz)", "€5,50", "", "mini-piatti"),
				simple("SKATEBOARD (4 starter)", "€16,50", "", "mini-piatti"),
				simple(`TAGLIERONE "LOVE TUSCANY"`, "€10,00", "Salumi, formaggi, sott'oli", "piatti-italiani"),
				simple("MEATBALL SPAGHETTI", "€12,00", "", "piatti-italiani"),
				simple("ZIA MARGHERITA", "€8,00", "", "pinse"),
				simple("BELLA SICILY", "€11,00", "Provola, salsiccia, cipolla", "pinse"),
				simple("HOT DOG Classic", "€10,00", "Würstel, maionese, ketchup, senape, cipolla, cetriolini", "sandwich"),
				simple("BLACK BABY PORK RIBS", "€18,00", "500g ribs di maiale, salsa BBQ, cetrioli, patate", "griglia"),
				simple("VULCANO", "€15,00", "Arrosticini di capra, fagioli neri, patate", "griglia"),
				simple("CAESAR SALAD", "€11,00", "", "insalate"),
				simple("NACHOS", "€4,00", "Salsa cheddar, jalapeños, guacamole, pomodoro", "insalate"),
			},
		},
		{
			Name:          "Drinks",
			Emoji:         "🍺",
			Section:       menu.SectionDrinks,
			Subcategories: []string{"Coca Cola", "Energy & Sport", "Altro", "Vini", "Cocktail & Spritz"},
			Items: concat(
				[]Item{
					draft("BUDWEISER", "Lager 5%", "€4,00", "€6,00"),
					draft("BJORNE IPA", "IPA 5,6%", "€5,00", "€7,00"),
					draft("KILKENNY", "Rossa irlandese 4,3%", "€4,50", "€6,50"),
					draft("HB", "Weiss 5,1%", "–", "€6,00"),
					draft("GUINNESS", "Stout 4,2%", "–", "€7,00"),
					draft("LEFFE", "Ambrata 6,6%", "–", "€7,00"),
				},
				in("Coca Cola", "bevande",
					textual("Coca Cola alla spina", "Piccola €3,00 - Media €4,00", ""),
					simple("Coca Cola Zero", "€2,50", ""),
					simple("Fanta", "€2,50", ""),
				),
				in("Energy & Sport", "bevande",
					simple("Gatorade", "€4,00", ""),
					simple("Red Bull", "€3,00", ""),
				),
				in("Altro", "bevande",
					simple("Succhi frutta", "€2,50", ""),
					simple("Estathé pesca/limone", "€2,00", ""),
				),
				in("Vini", "vini-cocktail",
					textual("Vino della casa", "Calice €4 - Bottiglia €14", ""),
					textual("Vino superior", "Bottiglia €20", ""),
				),
				in("Cocktail & Spritz", "vini-cocktail",
					simple("Spritz", "€8", "Aperol, Campari, Hugo, China"),
					simple("Cocktail", "€8", "Negroni, Gin/Vodka Tonic o Lemon"),
				),
			),
		},
		{
			Name:    "Dolci",
			Emoji:   "🍰",
			Section: menu.SectionDesserts,
			Items: []Item{
				simple("CHEESECAKE ai frutti di bosco", "€5,00", "", "dolci"),
				simple("TORTINA AL CIOCCOLATO con gianduia", "€5,00", "", "dolci"),
				simple(`FREAKSHAKE "THE BEST"`, "€7,50", "", "popular", "dolci"),
				simple("PANCAKE", "€6,50", "Burro, sciroppo d'acero, cioccolato o yogurt", "dolci"),
				simple("Espresso", "€1,50", "", "caffetteria"),
				simple("Cappuccino", "€1,70", "", "caffetteria"),
				simple("Amari/Liquori", "€4,00", "", "caffetteria"),
			},
		},
	}
}
