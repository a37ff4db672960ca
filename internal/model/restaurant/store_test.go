package restaurant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreLookups(t *testing.T) {
	store := NewMemoryStore(Seed())

	r, ok := store.FindByID("42")
	assert.True(t, ok)
	assert.Equal(t, "Trattoria Alba", r.Name)

	r, ok = store.FindByAgent("12")
	assert.True(t, ok)
	assert.Equal(t, "77", r.ID)

	_, ok = store.FindByAgent("")
	assert.False(t, ok)
	_, ok = store.FindByID("missing")
	assert.False(t, ok)
}

func TestListIsACopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	items := store.List()
	items[0].Name = "changed"

	r, _ := store.FindByID(items[0].ID)
	assert.NotEqual(t, "changed", r.Name)
}

func TestProfileAndTables(t *testing.T) {
	r, _ := NewMemoryStore(Seed()).FindByID("42")
	p := r.Profile()
	assert.True(t, p.TextSupport)
	assert.True(t, p.AudioSupport)
	assert.False(t, p.VideoSupport)
	assert.Equal(t, r.WelcomeMessage, p.WelcomeMessage)

	assert.True(t, r.HasTable("7"))
	assert.False(t, r.HasTable("99"))
	assert.True(t, Restaurant{}.HasTable("anything"))
}
