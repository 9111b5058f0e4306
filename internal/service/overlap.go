package service

import "github.com/Angel-crypt/backend-we/internal/models"

// FindConflict returns the first slot of the same teacher and weekday whose
// half-open interval [Start, End) intersects [start, end). Slots that only
// touch at a boundary do not conflict. The caller guarantees start < end.
func FindConflict(teacherID string, day models.Weekday, start, end models.TimeOfDay, existing []models.AvailabilitySlot) *models.AvailabilitySlot {
	for i := range existing {
		slot := &existing[i]
		if slot.TeacherID != teacherID || slot.Day != day {
			continue
		}
		if overlaps(start, end, slot.Start, slot.End) {
			return slot
		}
	}
	return nil
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd models.TimeOfDay) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func HasConflict(teacherID string, day models.Weekday, start, end models.TimeOfDay, existing []models.AvailabilitySlot) bool {
	return FindConflict(teacherID, day, start, end, existing) != nil
}

// excludeSlot drops the slot being edited so it cannot conflict with itself.
func excludeSlot(slots []models.AvailabilitySlot, id int64) []models.AvailabilitySlot {
	out := make([]models.AvailabilitySlot, 0, len(slots))
	for _, s := range slots {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
