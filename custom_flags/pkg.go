// Package custom_flags provides custom flag types for command-line argument parsing.
// It implements various flag types that can be used with the cobra CLI framework.
package custom_flags

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/hexgrid"
	"github.com/hexmaps/hexmaps/overpass"
)

// Interfaces extending pflag.Value for testability

// LatLngFlag extends pflag.Value for coordinate flags
type LatLngFlag interface {
	pflag.Value
	FlagName() string
	Point() hexgrid.Point
	IsSet() bool
}

// BBoxFlag extends pflag.Value for bounding box flags
type BBoxFlag interface {
	pflag.Value
	FlagName() string
	Value() overpass.BBox
	IsSet() bool
}

// ResolutionFlag extends pflag.Value for H3 resolution flags
type ResolutionFlag interface {
	pflag.Value
	FlagName() string
	Value() int
}

// FilePathFlag extends pflag.Value for file path flags
type FilePathFlag interface {
	pflag.Value
	FlagName() string
}

// UnionFlag extends pflag.Value for union flags
type UnionFlag interface {
	pflag.Value
	FlagName() string
	AllowedValues() []string
}

// latLngFlag represents a flag that must contain a "lat,lng" coordinate pair
type latLngFlag struct {
	point    hexgrid.Point
	isSet    bool
	flagName string
}

// NewLatLngFlag creates a new LatLngFlag with the given flag name
func NewLatLngFlag(flagName string) LatLngFlag {
	return &latLngFlag{
		flagName: flagName,
	}
}

// String returns the flag's value as a string
func (l latLngFlag) String() string {
	if !l.isSet {
		return ""
	}
	return fmt.Sprintf("%g,%g", l.point.Lat(), l.point.Lon())
}

// Set validates and sets the flag's value, checking for a valid coordinate pair
func (l *latLngFlag) Set(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(l.flagName),
			"flag must be a 'lat,lng' pair",
		)
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(l.flagName),
			"flag must be a 'lat,lng' pair of decimal degrees",
		)
	}

	point, err := hexgrid.NewPoint(lng, lat)
	if err != nil {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(l.flagName),
			"flag must be valid WGS84 coordinates",
		)
	}

	l.point = point
	l.isSet = true
	return nil
}

// Type returns the flag type as a string
func (l latLngFlag) Type() string {
	return "lat,lng"
}

// FlagName returns the flag's name for testing
func (l latLngFlag) FlagName() string {
	return l.flagName
}

// Point returns the flag's value as a hexgrid point
func (l latLngFlag) Point() hexgrid.Point {
	return l.point
}

// IsSet reports whether the flag was set on the command line
func (l latLngFlag) IsSet() bool {
	return l.isSet
}

// bboxFlag represents a flag that must contain a "south,west,north,east" box
type bboxFlag struct {
	bbox     overpass.BBox
	isSet    bool
	flagName string
}

// NewBBoxFlag creates a new BBoxFlag with the given flag name
func NewBBoxFlag(flagName string) BBoxFlag {
	return &bboxFlag{
		flagName: flagName,
	}
}

// String returns the flag's value as a string
func (b bboxFlag) String() string {
	if !b.isSet {
		return ""
	}
	return b.bbox.String()
}

// Set validates and sets the flag's value, checking the Overpass corner order
func (b *bboxFlag) Set(value string) error {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(b.flagName),
			"flag must be a 'south,west,north,east' box",
		)
	}

	corners := make([]float64, 0, 4)
	for _, part := range parts {
		corner, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return custom_errors.CreateInvalidFlagErrorWithMessage(
				custom_errors.FlagName(b.flagName),
				"flag must be a 'south,west,north,east' box of decimal degrees",
			)
		}
		corners = append(corners, corner)
	}

	bbox := overpass.BBox{South: corners[0], West: corners[1], North: corners[2], East: corners[3]}
	if err := bbox.Validate(); err != nil {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(b.flagName),
			fmt.Sprintf("flag is not a valid box: %v", err),
		)
	}

	b.bbox = bbox
	b.isSet = true
	return nil
}

// Type returns the flag type as a string
func (b bboxFlag) Type() string {
	return "bbox"
}

// FlagName returns the flag's name for testing
func (b bboxFlag) FlagName() string {
	return b.flagName
}

// Value returns the flag's value as an Overpass bounding box
func (b bboxFlag) Value() overpass.BBox {
	return b.bbox
}

// IsSet reports whether the flag was set on the command line
func (b bboxFlag) IsSet() bool {
	return b.isSet
}

// resolutionFlag represents a flag that must be an H3 resolution
type resolutionFlag struct {
	value    int
	flagName string
}

// NewResolutionFlag creates a new ResolutionFlag with the given flag name and default
func NewResolutionFlag(flagName string, value int) ResolutionFlag {
	if value < 0 || value > hexgrid.MaxResolution {
		panic("default resolution out of range")
	}
	return &resolutionFlag{
		value:    value,
		flagName: flagName,
	}
}

// String returns the flag's value as a string
func (r resolutionFlag) String() string {
	return strconv.Itoa(r.value)
}

// Set validates and sets the flag's value, ensuring it's within the H3 range
func (r *resolutionFlag) Set(value string) error {
	match, err := regexp.MatchString(`^\d+$`, value)
	if err != nil {
		return err
	}
	if !match {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(r.flagName),
			fmt.Sprintf("flag must be an integer between 0 and %d", hexgrid.MaxResolution),
		)
	}

	num, _ := strconv.Atoi(value)
	if num > hexgrid.MaxResolution {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(r.flagName),
			fmt.Sprintf("flag must be between 0 and %d", hexgrid.MaxResolution),
		)
	}

	r.value = num
	return nil
}

// Type returns the flag type as a string
func (r resolutionFlag) Type() string {
	return "int"
}

// FlagName returns the flag's name for testing
func (r resolutionFlag) FlagName() string {
	return r.flagName
}

// Value returns the flag's value as an int
func (r resolutionFlag) Value() int {
	return r.value
}

// filePathFlag represents a flag that must contain a valid POSIX/UNIX file path
type filePathFlag struct {
	value    string
	flagName string
}

// NewFilePathFlag creates a new FilePathFlag with the given flag name
func NewFilePathFlag(flagName string) FilePathFlag {
	return &filePathFlag{
		flagName: flagName,
	}
}

// String returns the flag's value as a string
func (p filePathFlag) String() string {
	return p.value
}

// Set validates and sets the flag's value, checking for valid file path format
func (p *filePathFlag) Set(value string) error {
	if len(value) == 0 || regexp.MustCompile(`^\s+$`).MatchString(value) {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(p.flagName),
			"flag cannot be empty or contain only whitespace",
		)
	}

	// Regex for general POSIX/UNIX file paths (relative or absolute)
	posixUnixFilePathRegex := `^(?:/?(?:[a-zA-Z0-9._-]+|\.{1,2})(?:/(?:[a-zA-Z0-9._-]+|\.{1,2}))*)?/?([a-zA-Z0-9._-]+)$`
	match, err := regexp.MatchString(posixUnixFilePathRegex, value)
	if err != nil {
		return err
	}
	if !match {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(p.flagName),
			fmt.Sprintf("flag value '%s' is not a valid file path", value),
		)
	}

	p.value = value
	return nil
}

// Type returns the flag type as a string
func (p filePathFlag) Type() string {
	return "string"
}

// FlagName returns the flag's name for testing
func (p filePathFlag) FlagName() string {
	return p.flagName
}

// unionFlag represents a flag that must be one of a predefined set of values
type unionFlag struct {
	value         string
	allowedValues []string
	flagName      string
}

// NewUnionFlag creates a new unionFlag with the given allowed values and flag name
func NewUnionFlag(allowedValues []string, flagName string, value string) UnionFlag {
	if value != "" && !lo.Contains(allowedValues, value) {
		panic("default value must be one of the allowed values")
	}
	return &unionFlag{
		value:         value,
		allowedValues: allowedValues,
		flagName:      flagName,
	}
}

// String returns the flag's value as a string
func (u unionFlag) String() string {
	return u.value
}

// Set validates and sets the flag's value, ensuring it's one of the allowed values
func (u *unionFlag) Set(value string) error {
	if !lo.Contains(u.allowedValues, value) {
		return custom_errors.CreateInvalidFlagErrorWithMessage(
			custom_errors.FlagName(u.flagName),
			fmt.Sprintf("flag must be one of %v", u.allowedValues),
		)
	}
	u.value = value
	return nil
}

// Type returns the flag type as a string
func (u unionFlag) Type() string {
	return "string"
}

// FlagName returns the flag's name for testing
func (u unionFlag) FlagName() string {
	return u.flagName
}

// AllowedValues returns the allowed values for testing
func (u unionFlag) AllowedValues() []string {
	return u.allowedValues
}
