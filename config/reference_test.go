package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultReferenceTable(t *testing.T) {
	table := DefaultReferenceTable()

	assert.True(t, table.Known("healthcare"))
	assert.True(t, table.Known("retail"))
	assert.False(t, table.Known("aerospace"))

	assert.Equal(t, 0.25, table.RiskWeight("healthcare"))
	assert.Equal(t, 0.2, table.RiskWeight("financial"))
	assert.Equal(t, BaselineIndustryRisk, table.RiskWeight("retail"))
	// unknown industries fall back to the baseline weight
	assert.Equal(t, BaselineIndustryRisk, table.RiskWeight("aerospace"))

	assert.True(t, table.Regulated("healthcare"))
	assert.True(t, table.Regulated("financial"))
	assert.False(t, table.Regulated("education"))
	assert.False(t, table.Regulated("aerospace"))

	industries := table.Industries()
	assert.Len(t, industries, 6)
	assert.Equal(t, "education", industries[0]) // sorted
}

func TestLoadReferenceTable_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	yaml := `
agriculture:
  risk_weight: 0.15
  regulated: false
  compliance_frameworks: [USDA]
  safety_considerations: [heavy machinery clearances]
healthcare:
  risk_weight: 0.3
  regulated: true
  compliance_frameworks: [HIPAA]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	table, err := LoadReferenceTable(path)
	require.NoError(t, err)

	assert.True(t, table.Known("agriculture"))
	assert.Equal(t, 0.15, table.RiskWeight("agriculture"))
	assert.Equal(t, 0.3, table.RiskWeight("healthcare"))
	// the file replaces the defaults entirely
	assert.False(t, table.Known("retail"))
}

func TestLoadReferenceTable_EmptyPathUsesDefaults(t *testing.T) {
	table, err := LoadReferenceTable("")
	require.NoError(t, err)
	assert.True(t, table.Known("logistics"))
}

func TestLoadReferenceTable_EmptyFileRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

	_, err := LoadReferenceTable(path)
	assert.Error(t, err)
}

func TestReferenceTable_Replace(t *testing.T) {
	table := DefaultReferenceTable()
	table.Replace(map[string]IndustryReference{
		"mining": {RiskWeight: 0.22, Regulated: true},
	})

	assert.True(t, table.Known("mining"))
	assert.False(t, table.Known("healthcare"))
	assert.Equal(t, 0.22, table.RiskWeight("mining"))
}
