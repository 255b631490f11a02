package category

import "github.com/saulo-duarte/pestcert-lambda/internal/question"

type Category struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Level struct {
	ID    question.Level `json:"id"`
	Name  string         `json:"name"`
	Color string         `json:"color"`
}

// Catalog lists the certification categories. Code 14 is not issued.
var Catalog = []Category{
	{"01", "agronomic-crops", "Agronomic Crops", "Pest control for field crops, grains, and agricultural commodities"},
	{"02", "fruit-and-nuts", "Fruit and Nuts", "Pest management for fruit trees, nut trees, and orchards"},
	{"03", "vegetable-crops", "Vegetable Crops", "Pest control for vegetable gardens and commercial vegetable production"},
	{"04", "agricultural-animals", "Agricultural Animals", "Pest control related to livestock and agricultural animal facilities"},
	{"05", "forest-pest-control", "Forest Pest Control", "Pest management for forested areas and timber production"},
	{"06", "ornamental-and-shade-trees", "Ornamental and Shade Trees", "Pest control for ornamental plants and shade trees"},
	{"07", "lawn-and-turf", "Lawn and Turf", "Pest management for lawns, golf courses, and turf areas"},
	{"08", "seed-treatment", "Seed Treatment", "Pest control through seed treatment and protection"},
	{"09", "aquatic-pest-control", "Aquatic Pest Control", "Pest management for aquatic environments and water systems"},
	{"10", "right-of-way-and-weeds", "Right-of-way and Weeds", "Pest control for rights-of-way, roadsides, and weed management"},
	{"11", "household-and-health-related", "Household and Health Related", "Pest control for residential and health-related environments"},
	{"12", "wood-destroying-pests", "Wood Destroying Pests", "Pest control for termites, carpenter ants, and wood-destroying insects"},
	{"13", "structural-fumigation", "Structural Fumigation", "Fumigation techniques for structural pest control"},
	{"15", "public-health-vertebrate-pests", "Public Health - Vertebrate Pests", "Control of vertebrate pests affecting public health"},
	{"16", "public-health-invertebrate-pests", "Public Health - Invertebrate Pests", "Control of invertebrate pests affecting public health"},
	{"17", "regulatory-pest-control", "Regulatory Pest Control", "Pest control for regulatory compliance and quarantine"},
	{"18", "demonstration-and-research", "Demonstration and Research", "Pest control for research, demonstration, and educational purposes"},
	{"19", "wood-preservation", "Wood Preservation", "Preservation and protection of wood products and structures"},
	{"20", "commodity-and-space-fumigation", "Commodity and Space Fumigation", "Fumigation for commodities and enclosed spaces"},
	{"21", "soil-fumigation", "Soil Fumigation", "Fumigation techniques for soil pest control"},
	{"22", "interior-plantscape", "Interior Plantscape", "Pest control for indoor plants and interior landscaping"},
	{"23", "park-or-school-pest-control", "Park or School Pest Control", "Pest management for parks, schools, and public spaces"},
	{"24", "swimming-pools", "Swimming Pools", "Pest control for swimming pools and aquatic facilities"},
	{"25", "aerial-applicator", "Aerial Applicator", "Aerial application of pesticides and pest control materials"},
	{"26", "sewer-root-control", "Sewer Root Control", "Control of root intrusion in sewer systems and underground utilities"},
}

var Levels = []Level{
	{question.LevelBeginner, "Beginner", "green"},
	{question.LevelIntermediate, "Intermediate", "yellow"},
	{question.LevelAdvanced, "Advanced", "red"},
}

func BySlug(slug string) (Category, bool) {
	for _, c := range Catalog {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

func ByID(id string) (Category, bool) {
	for _, c := range Catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
