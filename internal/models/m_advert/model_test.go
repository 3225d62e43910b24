package m_advert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_UpdateMut_EmptyIsNil(t *testing.T) {
	assert.Nil(t, NewModel().UpdateMut("a1", nil))
	assert.Nil(t, NewModel().UpdateMut("a1", map[string]interface{}{}))
}

func TestModel_Mutations(t *testing.T) {
	m := NewModel()

	assert.NotNil(t, m.UpdateMut("a1", map[string]interface{}{Status: "sold"}))
	assert.NotNil(t, m.InsertMut(&Data{AdvertID: "a1"}))
	assert.NotNil(t, m.DeleteMut("a1"))
}

func TestColumns_MatchesData(t *testing.T) {
	assert.Len(t, Columns(), 11)
	assert.Equal(t, AdvertID, Columns()[0])
	assert.NotContains(t, Columns(), UpdatedAt)
}
