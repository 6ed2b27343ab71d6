package timezone

import (
	"fmt"
	"meetbook/config"
	"meetbook/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

var appLocation = time.UTC

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return
	}

	if err := SetLocation(name); err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")
	}
}

// SetLocation switches the application timezone to an IANA name such as "Asia/Kolkata".
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("load location %q: %w", name, err)
	}

	appLocation = loc

	return nil
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(appLocation)
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

// ParseDay parses a YYYY-MM-DD calendar day.
func ParseDay(value string) (time.Time, error) {
	return Parse(constant.DayDateFormat, value)
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}

	return ToAppTime(t).Format(layout)
}
