// File: /services/aggregate.go
package services

import (
	"globe-travel-api/models"
)

// AggregateLocations attaches media and comments to each location, keeping
// the location order and the child order as given.
func AggregateLocations(rows []models.LocationStats, media []models.Media, comments []models.Comment) []models.LocationResponse {
	mediaByLocation := make(map[uint][]models.Media, len(rows))
	for _, m := range media {
		mediaByLocation[m.LocationID] = append(mediaByLocation[m.LocationID], m)
	}
	commentsByLocation := make(map[uint][]models.Comment, len(rows))
	for _, c := range comments {
		commentsByLocation[c.LocationID] = append(commentsByLocation[c.LocationID], c)
	}

	out := make([]models.LocationResponse, 0, len(rows))
	for _, row := range rows {
		resp := models.NewLocationResponse(row.Location, mediaByLocation[row.ID], commentsByLocation[row.ID])
		resp.MediaCount = row.MediaCount
		resp.CommentCount = row.CommentCount
		out = append(out, resp)
	}
	return out
}

// AggregateTrip nests responses under their requests. Requests keep their
// given order (newest first) and so do responses within a request (oldest
// first).
func AggregateTrip(trip models.Trip, requests []models.TripRequest, responses []models.TripResponse) models.TripDetail {
	byRequest := make(map[uint][]models.TripResponse, len(requests))
	for _, r := range responses {
		byRequest[r.RequestID] = append(byRequest[r.RequestID], r)
	}

	detail := models.TripDetail{Trip: trip, Requests: make([]models.TripRequestThread, 0, len(requests))}
	for _, req := range requests {
		thread := models.TripRequestThread{TripRequest: req, Responses: byRequest[req.ID]}
		if thread.Responses == nil {
			thread.Responses = []models.TripResponse{}
		}
		detail.Requests = append(detail.Requests, thread)
	}
	return detail
}
