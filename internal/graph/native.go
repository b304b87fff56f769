package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

const (
	localDateTimeLayout = "2006-01-02T15:04:05.999999999"
	localTimeLayout     = "15:04:05.999999999"
	offsetTimeLayout    = "15:04:05.999999999Z07:00"
)

// ToNative converts driver-native values into plain Go values that encode
// cleanly as JSON: nodes and relationships collapse to their property maps,
// temporal values become ISO-8601 strings and points become coordinate maps.
// Maps and lists are converted recursively; other values pass through.
func ToNative(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case dbtype.Node:
		return nativeMap(v.Props)
	case dbtype.Relationship:
		return nativeMap(v.Props)
	case dbtype.Path:
		nodes := make([]any, 0, len(v.Nodes))
		for _, n := range v.Nodes {
			nodes = append(nodes, nativeMap(n.Props))
		}
		rels := make([]any, 0, len(v.Relationships))
		for _, r := range v.Relationships {
			rels = append(rels, nativeMap(r.Props))
		}
		return map[string]any{"nodes": nodes, "relationships": rels}
	case dbtype.Date:
		return v.Time().Format(time.DateOnly)
	case dbtype.LocalDateTime:
		return v.Time().Format(localDateTimeLayout)
	case dbtype.LocalTime:
		return v.Time().Format(localTimeLayout)
	case dbtype.Time:
		return v.Time().Format(offsetTimeLayout)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case dbtype.Duration:
		return v.String()
	case dbtype.Point2D:
		return map[string]any{"srid": int64(v.SpatialRefId), "x": v.X, "y": v.Y}
	case dbtype.Point3D:
		return map[string]any{"srid": int64(v.SpatialRefId), "x": v.X, "y": v.Y, "z": v.Z}
	case map[string]any:
		return nativeMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ToNative(item)
		}
		return out
	default:
		return v
	}
}

// ToNativeMap converts a projected map value. Values that are not maps or
// graph entities yield nil.
func ToNativeMap(value any) map[string]any {
	m, _ := ToNative(value).(map[string]any)
	return m
}

func nativeMap(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = ToNative(v)
	}
	return out
}
