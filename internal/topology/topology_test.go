package topology

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hostnamePattern = regexp.MustCompile(`^(ws|srv|dc|db|web|app|mail)-\d{3}$`)

func TestHostnamesPattern(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	hosts := Hostnames(rng, 50)
	require.Len(t, hosts, 50)
	for _, h := range hosts {
		assert.Regexp(t, hostnamePattern, h)
	}
}

func TestHostnamesZeroCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	assert.Empty(t, Hostnames(rng, 0))
}

func TestUsernameRoleContext(t *testing.T) {
	fake := gofakeit.New(3)

	// lateral_movement only draws from privileged roles
	for i := 0; i < 20; i++ {
		u := Username(fake, "lateral_movement")
		assert.Regexp(t, `^(adm_|da_|svc_)`, u)
	}

	// unknown tactic falls back to a plain account name
	u := Username(fake, "no_such_tactic")
	assert.NotEmpty(t, u)
}

func TestUsernameDeterministicForSeed(t *testing.T) {
	a := gofakeit.New(21)
	b := gofakeit.New(21)

	for i := 0; i < 20; i++ {
		assert.Equal(t, Username(a, "lateral_movement"), Username(b, "lateral_movement"))
	}
}

func TestArtifactsOnePerTechnique(t *testing.T) {
	fake := gofakeit.New(11)
	techniques := []string{"T1078", "T1021.001", "T1057"}

	artifacts := Artifacts(fake, techniques)

	require.Len(t, artifacts, len(techniques))
	for i, a := range artifacts {
		assert.Equal(t, techniques[i], a.Technique)
		assert.Contains(t, []string{"low", "medium", "high"}, a.Detectability)
		assert.Len(t, a.IOCs, 3)
	}
}

func TestDefaultNetworkPathsReferenceAssets(t *testing.T) {
	n := Default()
	known := make(map[string]bool, len(n.Assets))
	for _, a := range n.Assets {
		known[a.Host] = true
	}
	for _, p := range n.Paths {
		assert.True(t, known[p.From], "unknown path source %s", p.From)
		assert.True(t, known[p.To], "unknown path target %s", p.To)
	}
}
