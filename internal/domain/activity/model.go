package activity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalIDPrefix marks ids assigned on the client for logs the server has not confirmed.
const LocalIDPrefix = "local-"

// LogID identifies an activity log. It is either Persisted (server-assigned)
// or PendingLocal (assigned locally after a failed create).
type LogID struct {
	persisted int64
	local     string
}

// Persisted returns a server-confirmed id.
func Persisted(id int64) LogID {
	return LogID{persisted: id}
}

// PendingLocal returns a client-side id for a log that is not yet persisted.
func PendingLocal(tempID string) LogID {
	if !strings.HasPrefix(tempID, LocalIDPrefix) {
		tempID = LocalIDPrefix + tempID
	}
	return LogID{local: tempID}
}

// NewPendingLocal generates a fresh PendingLocal id.
func NewPendingLocal() LogID {
	return PendingLocal(uuid.NewString())
}

// IsPending reports whether the id was assigned locally.
func (id LogID) IsPending() bool {
	return id.local != ""
}

// IsZero reports whether the id is unset.
func (id LogID) IsZero() bool {
	return id.local == "" && id.persisted == 0
}

// Int64 returns the server id, and false for pending ids.
func (id LogID) Int64() (int64, bool) {
	if id.IsPending() {
		return 0, false
	}
	return id.persisted, true
}

func (id LogID) String() string {
	if id.IsPending() {
		return id.local
	}
	return strconv.FormatInt(id.persisted, 10)
}

// ParseLogID parses the textual form produced by String.
func ParseLogID(s string) (LogID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, LocalIDPrefix) {
		return PendingLocal(s), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return LogID{}, fmt.Errorf("%w: log id %q", ErrInvalidInput, s)
	}
	return Persisted(n), nil
}

// MarshalJSON writes persisted ids as numbers and pending ids as strings.
func (id LogID) MarshalJSON() ([]byte, error) {
	if id.IsPending() {
		return json.Marshal(id.local)
	}
	return []byte(strconv.FormatInt(id.persisted, 10)), nil
}

func (id *LogID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = LogID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseLogID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("log id: %w", err)
	}
	*id = Persisted(n)
	return nil
}

// Log is one recorded user action with an emissions-saved estimate.
type Log struct {
	ID             LogID     `json:"id"`
	ActivityType   string    `json:"activity_type"`
	Description    string    `json:"description"`
	EmissionsSaved float64   `json:"emissions_saved"`
	PointsEarned   int       `json:"points_earned"`
	ActivityDate   Date      `json:"activity_date"`
	CreatedAt      time.Time `json:"created_at"`
	Notes          string    `json:"notes,omitempty"`
	Location       string    `json:"location,omitempty"`
}

// Pending reports whether the log has not been confirmed by the server.
func (l Log) Pending() bool {
	return l.ID.IsPending()
}

// Category returns the canonical category of the log.
func (l Log) Category() string {
	return Canonical(l.ActivityType)
}

// Input carries the user-editable fields of a log for create and update.
type Input struct {
	ActivityType   string  `json:"activity_type" validate:"required"`
	Description    string  `json:"description" validate:"required,max=500"`
	EmissionsSaved float64 `json:"emissions_saved" validate:"gte=0"`
	PointsEarned   int     `json:"points_earned" validate:"gte=0"`
	ActivityDate   Date    `json:"activity_date" validate:"required"`
	Notes          string  `json:"notes,omitempty" validate:"max=1000"`
	Location       string  `json:"location,omitempty" validate:"max=200"`
}

// ToLog builds a log from the input with the given id and creation time.
func (in Input) ToLog(id LogID, createdAt time.Time) Log {
	return Log{
		ID:             id,
		ActivityType:   in.ActivityType,
		Description:    in.Description,
		EmissionsSaved: in.EmissionsSaved,
		PointsEarned:   in.PointsEarned,
		ActivityDate:   in.ActivityDate,
		CreatedAt:      createdAt,
		Notes:          in.Notes,
		Location:       in.Location,
	}
}

// InputFrom returns the editable fields of a log.
func InputFrom(l Log) Input {
	return Input{
		ActivityType:   l.ActivityType,
		Description:    l.Description,
		EmissionsSaved: l.EmissionsSaved,
		PointsEarned:   l.PointsEarned,
		ActivityDate:   l.ActivityDate,
		Notes:          l.Notes,
		Location:       l.Location,
	}
}
