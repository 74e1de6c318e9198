package feedback

import "github.com/oggyb/ideaji/internal/db"

// Points per first-time feedback.
const (
	PointsLike           = 10
	PointsPass           = 5
	PointsDetailedFull   = 20 // rating and comment
	PointsDetailedSingle = 15 // rating or comment
	PointsDetailedBare   = 10
)

// PointsFor returns the award for a first-time submission.
// An empty comment counts as absent.
func PointsFor(action string, rating *int, comment *string) int64 {
	switch action {
	case db.ActionLike:
		return PointsLike
	case db.ActionPass:
		return PointsPass
	case db.ActionDetailed:
		hasRating := rating != nil
		hasComment := comment != nil && *comment != ""
		switch {
		case hasRating && hasComment:
			return PointsDetailedFull
		case hasRating || hasComment:
			return PointsDetailedSingle
		default:
			return PointsDetailedBare
		}
	}
	return 0
}
