// Package knowledge holds a static interior-design knowledge base: per-room
// principles and per-style recommendations. The planning stage folds relevant
// tips into its prompt so plans lean on established practice instead of the
// model improvising. Tables are immutable; lookups fall back to generic tips
// for unknown room types or styles.
package knowledge

import "strings"

// roomTips maps normalized room types to design principles.
var roomTips = map[string][]string{
	"bedroom": {
		"Bedrooms should prioritize comfort and tranquility. Use soft, calming colors like blues, grays, or warm neutrals.",
		"Place the bed as the focal point, ideally against the longest wall and away from the door.",
		"Include bedside tables on both sides for balance and functionality.",
		"Layer lighting: overhead for general use, bedside lamps for reading, and accent lighting for ambiance.",
		"Add soft textiles like rugs, curtains, and throw pillows to absorb sound and create warmth.",
	},
	"living_room": {
		"Living rooms should balance comfort with style. Create conversation areas with seating facing each other.",
		"Use the 60-30-10 color rule: 60% dominant color, 30% secondary, 10% accent.",
		"Place the largest piece of furniture (usually sofa) first, then build around it.",
		"Create a focal point: fireplace, TV, art piece, or statement furniture.",
		"Mix textures and materials to add visual interest: wood, metal, fabric, glass.",
	},
	"kitchen": {
		"Follow the kitchen work triangle principle: sink, stove, and refrigerator should form an efficient triangle.",
		"Maximize counter space and ensure adequate task lighting over work areas.",
		"Use durable, easy-to-clean materials for high-traffic areas.",
		"Include both closed storage and open shelving for balance.",
		"Consider an island or peninsula for additional prep space and casual dining.",
	},
	"office": {
		"Position desk near natural light source but avoid glare on computer screens.",
		"Invest in ergonomic furniture: adjustable chair, proper desk height.",
		"Include both task lighting and ambient lighting to reduce eye strain.",
		"Add plants to improve air quality and create a calming environment.",
		"Use vertical storage solutions to maximize floor space.",
	},
}

// genericTips applies when the room type is unknown.
var genericTips = []string{
	"Focus on creating a balanced and functional space.",
	"Use appropriate lighting for the room's purpose.",
	"Choose a cohesive color scheme.",
	"Consider traffic flow and furniture placement.",
}

// styleGuides maps design styles to concrete recommendations.
var styleGuides = map[string][]string{
	"modern": {
		"Use clean lines and minimal ornamentation",
		"Stick to neutral colors with bold accent pieces",
		"Choose furniture with geometric shapes",
		"Incorporate materials like glass, steel, and concrete",
	},
	"scandinavian": {
		"Embrace minimalism with functional furniture",
		"Use light woods like pine, ash, or birch",
		"Keep color palette light and neutral",
		"Add cozy textiles for 'hygge' feeling",
	},
	"traditional": {
		"Use rich, warm colors and classic patterns",
		"Choose furniture with curved lines and ornate details",
		"Layer different textures and fabrics",
		"Include antiques or vintage pieces",
	},
	"industrial": {
		"Expose raw materials like brick, concrete, and metal",
		"Use a neutral color palette with darker tones",
		"Choose furniture with metal frames and reclaimed wood",
		"Add Edison bulb lighting for ambiance",
	},
}

// DesignTips returns the principles for a room type, or generic guidance when
// the type is unknown. Matching is case-insensitive; spaces normalize to
// underscores ("Living Room" -> "living_room").
func DesignTips(roomType string) []string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(roomType)), " ", "_")
	if tips, ok := roomTips[key]; ok {
		return tips
	}
	return genericTips
}

// StyleRecommendations returns recommendations for a design style. Unknown
// styles get a single generic line.
func StyleRecommendations(style string) []string {
	if tips, ok := styleGuides[strings.ToLower(strings.TrimSpace(style))]; ok {
		return tips
	}
	return []string{"Focus on creating a cohesive look that reflects your personal style"}
}
