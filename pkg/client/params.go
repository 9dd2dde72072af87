package client

import (
	"net/url"
	"strconv"

	"github.com/Sternrassler/exercise-library-client/pkg/catalog"
)

// ExerciseParams are the native filters of GET /exercises.
// Zero values are omitted from the query string.
type ExerciseParams struct {
	Name            string
	Type            catalog.ExerciseType
	MovementPattern string
	BodyPart        catalog.NativeBodyPart
	MuscleID        int
	Page            int
	PageSize        int
}

// Values encodes the params as a query string.
func (p ExerciseParams) Values() url.Values {
	v := url.Values{}
	setString(v, "name", p.Name)
	setString(v, "type", string(p.Type))
	setString(v, "movement_pattern", p.MovementPattern)
	setString(v, "body_part", string(p.BodyPart))
	setInt(v, "muscle_id", p.MuscleID)
	setInt(v, "page", p.Page)
	setInt(v, "page_size", p.PageSize)
	return v
}

// MuscleParams are the native filters of GET /muscles.
type MuscleParams struct {
	BodyPart catalog.NativeBodyPart
	Page     int
	PageSize int
}

// Values encodes the params as a query string.
func (p MuscleParams) Values() url.Values {
	v := url.Values{}
	setString(v, "body_part", string(p.BodyPart))
	setInt(v, "page", p.Page)
	setInt(v, "page_size", p.PageSize)
	return v
}

// MovementPatternParams are the native filters of GET /movement-patterns.
type MovementPatternParams struct {
	Name     string
	Page     int
	PageSize int
}

// Values encodes the params as a query string.
func (p MovementPatternParams) Values() url.Values {
	v := url.Values{}
	setString(v, "name", p.Name)
	setInt(v, "page", p.Page)
	setInt(v, "page_size", p.PageSize)
	return v
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value != 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
