package models

// TimeCodeCatalog holds every time code, split into its two categories and
// organised into named groups for presentation.
type TimeCodeCatalog struct {
	Chargeable    []TimeCodeGroup
	NonChargeable []TimeCodeGroup
}

// NewTimeCodeCatalog groups codes by category and group label, preserving
// the order in which groups and codes first appear.
func NewTimeCodeCatalog(codes []TimeCode) TimeCodeCatalog {
	var cat TimeCodeCatalog
	for _, code := range codes {
		groups := &cat.Chargeable
		if code.Category == NonChargeable {
			groups = &cat.NonChargeable
		}

		idx := -1
		for i, g := range *groups {
			if g.Label == code.Group {
				idx = i
				break
			}
		}
		if idx < 0 {
			*groups = append(*groups, TimeCodeGroup{Label: code.Group})
			idx = len(*groups) - 1
		}
		(*groups)[idx].Codes = append((*groups)[idx].Codes, code)
	}
	return cat
}

// Groups returns the groups of one category.
func (c TimeCodeCatalog) Groups(category Category) []TimeCodeGroup {
	if category == NonChargeable {
		return c.NonChargeable
	}
	return c.Chargeable
}

// All returns every code, chargeable first.
func (c TimeCodeCatalog) All() []TimeCode {
	var codes []TimeCode
	for _, g := range c.Chargeable {
		codes = append(codes, g.Codes...)
	}
	for _, g := range c.NonChargeable {
		codes = append(codes, g.Codes...)
	}
	return codes
}

// Lookup finds a code by its identifier.
func (c TimeCodeCatalog) Lookup(id string) (TimeCode, bool) {
	for _, code := range c.All() {
		if code.ID == id {
			return code, true
		}
	}
	return TimeCode{}, false
}

func (c TimeCodeCatalog) IsNonChargeable(id string) bool {
	for _, g := range c.NonChargeable {
		for _, code := range g.Codes {
			if code.ID == id {
				return true
			}
		}
	}
	return false
}

// Len returns the number of codes in the catalog.
func (c TimeCodeCatalog) Len() int {
	return len(c.All())
}
