package office

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_UnknownSSIDReturnsRemote(t *testing.T) {
	reg := DefaultRegistry()

	office := reg.Resolve("SomeCafeWifi", nil)

	assert.Equal(t, "remote", office.ID)
	assert.True(t, reg.IsRemote(office))
}

func TestResolve_SingleMatchReturnsThatOffice(t *testing.T) {
	reg := DefaultRegistry()

	// Piscina_online only belongs to plaza-america.
	office := reg.Resolve("Piscina_online", nil)

	assert.Equal(t, "plaza-america", office.ID)
}

func TestResolve_SingleMatchIgnoresLocation(t *testing.T) {
	reg := DefaultRegistry()

	// Location far away from the matched office must not change the result.
	office := reg.Resolve("Piscina_online", &Location{Lat: 0, Lon: 0})

	assert.Equal(t, "plaza-america", office.ID)
}

func TestResolve_AmbiguousWithoutLocationReturnsPrimary(t *testing.T) {
	reg := DefaultRegistry()

	office := reg.Resolve("WLAN_PA1", nil)

	assert.Equal(t, "plaza-america", office.ID)
}

func TestResolve_AmbiguousWithLocationReturnsClosest(t *testing.T) {
	reg := DefaultRegistry()

	// A few meters from the MAD1 site.
	office := reg.Resolve("WLAN_PA1", &Location{Lat: 40.279, Lon: -3.683})

	assert.Equal(t, "mad1", office.ID)
}

func TestResolve_AmbiguousFarFromEverySiteReturnsFallback(t *testing.T) {
	reg := DefaultRegistry()

	// Shared corporate network but nowhere near a known site.
	office := reg.Resolve("WLAN_PA1", &Location{Lat: 43.36, Lon: -8.41})

	assert.Equal(t, "shop", office.ID)
}

func TestResolve_TwoNearbyOfficesPicksCloser(t *testing.T) {
	a := Office{ID: "a", Location: loc(40.0, -3.0), SSIDs: []string{"SHARED"}, Glyph: ":a:"}
	b := Office{ID: "b", Location: loc(40.002, -3.0), SSIDs: []string{"SHARED"}, Glyph: ":b:"}
	remote := Office{ID: "remote", Glyph: ":r:"}
	fallback := Office{ID: "fallback", Glyph: ":f:"}
	holiday := Office{ID: "holiday", Glyph: ":h:"}
	reg, err := NewRegistry([]Office{a, b, remote, fallback, holiday}, "remote", "holiday", "a", "fallback")
	require.NoError(t, err)

	// ~100m from a, ~300m from b: both inside the match threshold.
	office := reg.Resolve("SHARED", &Location{Lat: 40.0005, Lon: -3.0})

	assert.Equal(t, "a", office.ID)
}

func TestByGlyph(t *testing.T) {
	reg := DefaultRegistry()

	office, ok := reg.ByGlyph(":mad1_bee:")
	require.True(t, ok)
	assert.Equal(t, "mad1", office.ID)

	_, ok = reg.ByGlyph(":never_seen:")
	assert.False(t, ok)
}

func TestNewRegistry_RejectsUnknownRoles(t *testing.T) {
	_, err := NewRegistry([]Office{{ID: "only"}}, "remote", "holiday", "only", "only")
	require.Error(t, err)
}

func TestNewRegistry_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewRegistry([]Office{{ID: "dup"}, {ID: "dup"}}, "dup", "dup", "dup", "dup")
	require.Error(t, err)
}

func TestDistanceTo(t *testing.T) {
	valencia := Office{ID: "v", Location: loc(39.4699, -0.3763)}

	// Valencia to Madrid is roughly 300 km.
	d := valencia.DistanceTo(Location{Lat: 40.4168, Lon: -3.7038})
	assert.InDelta(t, 300_000, d, 15_000)

	// An office without coordinates sorts last.
	nowhere := Office{ID: "n"}
	assert.Greater(t, nowhere.DistanceTo(Location{}), d)
}
