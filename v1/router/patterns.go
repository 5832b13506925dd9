package router

// NumericPatterns match coordinates, units, comparisons, ocean variables,
// cardinal regions and recency words.
var NumericPatterns = []string{
	`\b\d+\.?\d*\s*(degrees?|°)\b`,
	`\b(latitude|longitude|lat|lon|depth|temperature|temp|salinity|pressure)\b`,
	`\b(greater|less|more|higher|lower|above|below|between|range)\s+than\b`,
	`\b\d+\.?\d*\s*(m|meters?|km|kilometers?|°c|celsius|psu)\b`,
	`\b(north|south|east|west|equator|arctic|antarctic)\b`,
	`\b(recent|last|latest|current|today|yesterday|month|year)\b`,
}

// SemanticPatterns match descriptive, similarity, research and mission
// vocabulary.
var SemanticPatterns = []string{
	`\b(describe|description|about|characteristics|features|type|kind)\b`,
	`\b(similar|like|related|comparable)\b`,
	`\b(research|study|experiment|project|program)\b`,
	`\b(mission|deployment|purpose|objective)\b`,
}
