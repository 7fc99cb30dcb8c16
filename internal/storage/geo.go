package storage

import (
	"log"

	"sparmatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// geoKey is the Redis GEO set holding the last reported position per user.
const geoKey = "geo:users"

// UpdateLocation writes the user's coordinates to both stores: the profile
// row (so REST reads see them) and the Redis GEO index (which serves the
// `near` query). The updated profile is returned for the broadcast event.
func (s *Service) UpdateLocation(userID string, longitude, latitude float64) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{ID: userID}
	}
	user.Longitude = &longitude
	user.Latitude = &latitude
	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}

	if err := s.Redis.GeoAdd(s.Ctx, geoKey, &redis.GeoLocation{
		Name:      userID,
		Longitude: longitude,
		Latitude:  latitude,
	}).Err(); err != nil {
		log.Printf("ERROR: failed to index location for user %s: %v", userID, err)
		return nil, err
	}
	return user, nil
}

// NearbyUsers returns users inside the bounding box of side 2*maxDistance km
// centred on the given point, cut to true distance <= maxDistance km.
func (s *Service) NearbyUsers(longitude, latitude, maxDistance float64) ([]models.NearbyUser, error) {
	locs, err := s.Redis.GeoSearchLocation(s.Ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude: longitude,
			Latitude:  latitude,
			BoxWidth:  2 * maxDistance,
			BoxHeight: 2 * maxDistance,
			BoxUnit:   "km",
			Sort:      "ASC",
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}

	users := make([]models.NearbyUser, 0, len(locs))
	for _, loc := range locs {
		if loc.Dist > maxDistance {
			continue
		}
		users = append(users, models.NearbyUser{
			ID:        loc.Name,
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		})
	}
	return users, nil
}
