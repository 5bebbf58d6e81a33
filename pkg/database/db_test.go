package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBMigratesSchema(t *testing.T) {
	db, err := InitDB(Options{DataPath: "file:" + t.Name() + "?mode=memory&cache=shared", Quiet: true})
	require.NoError(t, err)

	for _, model := range []any{&APIKey{}, &APIUsage{}, &MasterUser{}, &PlanRecord{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}

	rec := PlanRecord{ID: "3f1c", KeyID: 1, Result: `{"days":[]}`, VideoCount: 4}
	require.NoError(t, db.Create(&rec).Error)

	var back PlanRecord
	require.NoError(t, db.First(&back, "id = ?", "3f1c").Error)
	assert.Equal(t, 4, back.VideoCount)
	assert.False(t, back.CreatedAt.IsZero())
}
