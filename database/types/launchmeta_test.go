package types

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestLaunchMeta_Scan(t *testing.T) {
	var m LaunchMeta
	assert.NoError(t, m.Scan(`{"username":"Alex","offline":true,"jvm_args":3}`))
	assert.Equal(t, LaunchMeta{Username: "Alex", Offline: true, JvmArgs: 3}, m)

	m = LaunchMeta{}
	assert.NoError(t, m.Scan([]byte(`{"game_dir":"/srv/mc"}`)))
	assert.Equal(t, "/srv/mc", m.GameDir)

	assert.Error(t, m.Scan(12))
}

func TestLaunchMeta_Value(t *testing.T) {
	v, err := LaunchMeta{Username: "Alex"}.Value()
	assert.NoError(t, err)
	assert.IsType(t, "", v)
	assert.Contains(t, v, `"username":"Alex"`)
}
