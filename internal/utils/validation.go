package utils

import (
	"errors"
	"regexp"
	"time"
)

var (
	// Alphanumeric plus underscore, hyphen, dot covers GTFS-style IDs.
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
)

// ValidateID checks that a station, line or train ID is safe and within
// reasonable limits.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}
	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}
	return nil
}

// ValidateClock checks an "HH:MM" clock string. Hours past 23 are allowed
// for services that run over midnight.
func ValidateClock(clock string) error {
	if clock == "" {
		return errors.New("time cannot be empty")
	}
	matched, _ := regexp.MatchString(`^\d{1,2}:\d{2}$`, clock)
	if !matched {
		return errors.New("invalid time format, use HH:MM")
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string. Empty dates are allowed and
// default to the current date.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// ValidateLatitude checks a latitude value.
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude checks a longitude value.
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius checks a proximity radius in meters.
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}
	if radius > 10000 {
		return errors.New("radius too large (max 10000 meters)")
	}
	return nil
}
