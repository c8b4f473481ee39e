package counsellor

import (
	"encoding/json"
	"time"

	"ai-counsellor-be/internal/entity"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// profileFromMap converts the loose profile mapping back into the typed
// entity. Fields holding values the type cannot represent are skipped;
// the loose mapping in storage remains the source of truth.
func profileFromMap(m map[string]interface{}) entity.Profile {
	raw, err := json.Marshal(m)
	if err != nil {
		return entity.Profile{}
	}
	var profile entity.Profile
	_ = json.Unmarshal(raw, &profile)
	return profile
}
