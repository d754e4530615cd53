package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodes() []TimeCode {
	return []TimeCode{
		{ID: "1", Name: "Design", Group: "Design & Preparation", Category: Chargeable},
		{ID: "ADM", Name: "Administration", Group: "Office Admin", Category: NonChargeable},
		{ID: "2", Name: "Preparation", Group: "Design & Preparation", Category: Chargeable},
		{ID: "5", Name: "Manufacturing", Group: "Technical & Manufacturing", Category: Chargeable},
		{ID: "LVE", Name: "Leave", Group: "Time Off", Category: NonChargeable},
	}
}

func TestNewTimeCodeCatalog(t *testing.T) {
	cat := NewTimeCodeCatalog(testCodes())

	require.Len(t, cat.Chargeable, 2)
	require.Len(t, cat.NonChargeable, 2)

	assert.Equal(t, "Design & Preparation", cat.Chargeable[0].Label)
	assert.Len(t, cat.Chargeable[0].Codes, 2)
	assert.Equal(t, "2", cat.Chargeable[0].Codes[1].ID)
	assert.Equal(t, "Technical & Manufacturing", cat.Chargeable[1].Label)
	assert.Equal(t, "Office Admin", cat.NonChargeable[0].Label)
	assert.Equal(t, 5, cat.Len())
}

func TestTimeCodeCatalogLookup(t *testing.T) {
	cat := NewTimeCodeCatalog(testCodes())

	t.Run("chargeable", func(t *testing.T) {
		code, ok := cat.Lookup("5")
		require.True(t, ok)
		assert.Equal(t, "Manufacturing", code.Name)
		assert.False(t, cat.IsNonChargeable("5"))
	})

	t.Run("non_chargeable", func(t *testing.T) {
		code, ok := cat.Lookup("ADM")
		require.True(t, ok)
		assert.Equal(t, NonChargeable, code.Category)
		assert.True(t, cat.IsNonChargeable("ADM"))
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok := cat.Lookup("XYZ")
		assert.False(t, ok)
		assert.False(t, cat.IsNonChargeable("XYZ"))
	})
}

func TestTimeCodeCatalogAllOrder(t *testing.T) {
	cat := NewTimeCodeCatalog(testCodes())

	var ids []string
	for _, c := range cat.All() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"1", "2", "5", "ADM", "LVE"}, ids)
}

func TestTimesheetEntryClone(t *testing.T) {
	e := TimesheetEntry{ID: 1, Hours: map[string]float64{"2024-07-01": 4}}
	c := e.Clone()
	c.Hours["2024-07-01"] = 8

	assert.Equal(t, 4.0, e.Hours["2024-07-01"])
	assert.Equal(t, 8.0, c.Hours["2024-07-01"])
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Chargeable", Chargeable.Label())
	assert.Equal(t, "Non-Chargeable", NonChargeable.Label())
}
