// Package geo parses and range-checks latitude/longitude strings.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"sea/pkg/e"
)

type Axis int

const (
	Latitude Axis = iota
	Longitude
)

func (a Axis) String() string {
	if a == Longitude {
		return "longitude"
	}
	return "latitude"
}

// Bounds returns the inclusive range for the axis.
func (a Axis) Bounds() (min, max float64) {
	if a == Longitude {
		return -180, 180
	}
	return -90, 90
}

var (
	ErrInvalidFormat = fmt.Errorf("%w: coordinate is not a decimal number", e.ErrInvalidCoordinates)
	ErrOutOfRange    = fmt.Errorf("%w: coordinate out of range", e.ErrInvalidCoordinates)
)

type CoordinateError struct {
	Axis  Axis
	Value string
	Err   error
}

func (c *CoordinateError) Error() string {
	if errors.Is(c.Err, ErrOutOfRange) {
		return fmt.Sprintf("%s out of range: %q", c.Axis, c.Value)
	}
	return fmt.Sprintf("invalid %s coordinate: %q", c.Axis, c.Value)
}

func (c *CoordinateError) Unwrap() error { return c.Err }

// Parse converts value to a float and checks it against the axis bounds.
func Parse(value string, axis Axis) (float64, error) {
	s := strings.TrimSpace(value)
	// ParseFloat also reads hex floats and digit separators; only plain decimals are coordinates.
	if strings.ContainsAny(s, "xX_") {
		return 0, &CoordinateError{Axis: axis, Value: value, Err: ErrInvalidFormat}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		// ParseFloat reports overflow with ErrRange and ±Inf; that is a number, just too big.
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, &CoordinateError{Axis: axis, Value: value, Err: ErrInvalidFormat}
		}
	}
	min, max := axis.Bounds()
	if math.IsNaN(v) || v < min || v > max {
		return 0, &CoordinateError{Axis: axis, Value: value, Err: ErrOutOfRange}
	}
	return v, nil
}

// Format renders a coordinate with 6 fixed decimals, the stored canonical form.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func Normalize(value string, axis Axis) (string, error) {
	v, err := Parse(value, axis)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

// NormalizePair validates both coordinates, latitude first.
func NormalizePair(lat, lng string) (string, string, error) {
	nlat, err := Normalize(lat, Latitude)
	if err != nil {
		return "", "", err
	}
	nlng, err := Normalize(lng, Longitude)
	if err != nil {
		return "", "", err
	}
	return nlat, nlng, nil
}
