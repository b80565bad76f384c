package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-milestone/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultLanguage", config.DefaultLanguage},
		{"ParamYearsOld", config.ParamYearsOld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 37, config.DefaultAgeYears)
	assert.Greater(t, config.MaxAgeYears, config.DefaultAgeYears)
	assert.Greater(t, config.DefaultRefreshMin, 0, "Default refresh interval must be positive")
	assert.Equal(t, 86400, config.SecondsPerDay)
	assert.Equal(t, len(config.DatePlaceholder), config.DateEntryMaxLen)
	assert.Equal(t, 30*time.Second, config.HTTPTimeout)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Milestone/"), "UserAgent must start with AppName/")
}

// TestRoutes_CarryParam keeps the chi patterns in sync with the param name.
func TestRoutes_CarryParam(t *testing.T) {
	assert.Contains(t, config.RoutePage, "{"+config.ParamYearsOld+"}")
	assert.Contains(t, config.RouteMilestoneICS, "{"+config.ParamYearsOld+"}")
}

// TestStubVCalendar_Shape checks the empty feed is a complete VCALENDAR.
func TestStubVCalendar_Shape(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.StubVCalendar, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(config.StubVCalendar, "END:VCALENDAR\r\n"))
	assert.Contains(t, config.StubVCalendar, config.ICalProdid)
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")

	// Address books with photos are large, but an endless stream must be cut.
	assert.GreaterOrEqual(t, int64(config.MaxHTTPResponseSize), int64(10*1024*1024))
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "MaxHTTPResponseSize should stay under 1GB to protect RAM")
}
