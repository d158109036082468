package model

import (
	"time"

	"github.com/google/uuid"
)

// NowFunc is the clock used for timestamps
var NowFunc = time.Now // mockable

// Unassigned marks a student or course whose teacher has been deleted.
const Unassigned = ""

func GenerateUUID() string {
	return uuid.New().String()
}
