package services

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"kalamela-backend/models"
)

// Chest numbers are the human-readable participant/team codes displayed on
// event day. Individual: {P}{EEE}-{DD}-{NNN} where P encodes the seniority
// bucket. Group: {PP}{EEE}-{DD}-{NNN} where PP abbreviates the event name.
// NNN is derived from a live count of the bucket, so it is monotonically
// increasing per (event, district, prefix) while rows exist.

func seniorityPrefix(bucket models.SeniorityCategory) string {
	switch bucket {
	case models.SeniorityJunior:
		return "J"
	case models.SenioritySenior:
		return "S"
	default:
		return "I"
	}
}

// eventAbbreviation builds the group prefix from the first letters of the
// first two words of the event name, parentheses stripped. Falls back to "G".
func eventAbbreviation(name string) string {
	cleaned := strings.NewReplacer("(", "", ")", "").Replace(name)
	words := strings.Fields(cleaned)
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		b.WriteString(strings.ToUpper(w[:1]))
	}
	if b.Len() == 0 {
		return "G"
	}
	return b.String()
}

func individualChestNumber(tx *gorm.DB, eventID, districtID int, bucket models.SeniorityCategory) (string, error) {
	prefix := fmt.Sprintf("%s%03d-%02d-", seniorityPrefix(bucket), eventID, districtID)

	var count int64
	err := tx.Model(&models.IndividualEventParticipation{}).
		Where("individual_event_id = ? AND chest_number LIKE ?", eventID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", errors.Wrap(err, "count chest numbers")
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func groupChestNumber(tx *gorm.DB, event *models.GroupEvent, districtID int) (string, error) {
	prefix := fmt.Sprintf("%s%03d-%02d-", eventAbbreviation(event.Name), event.ID, districtID)

	// Teammates share a chest number, so count teams rather than rows.
	var count int64
	err := tx.Model(&models.GroupEventParticipation{}).
		Distinct("chest_number").
		Where("group_event_id = ? AND chest_number LIKE ?", event.ID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", errors.Wrap(err, "count team chest numbers")
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}
