package sqlite

import (
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingWorkStart:
			settings.WorkStart = value
		case constants.SettingWorkEnd:
			settings.WorkEnd = value
		case constants.SettingSlotIntervalMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.SlotIntervalMin); err != nil {
				return models.Settings{}, fmt.Errorf("parsing %s: %w", key, err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingGroupwareUserID:
			settings.GroupwareUserID = value
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := [][2]string{
		{constants.SettingWorkStart, settings.WorkStart},
		{constants.SettingWorkEnd, settings.WorkEnd},
		{constants.SettingSlotIntervalMin, fmt.Sprintf("%d", settings.SlotIntervalMin)},
		{constants.SettingTimezone, settings.Timezone},
		{constants.SettingGroupwareUserID, settings.GroupwareUserID},
	}
	for _, kv := range values {
		if _, err := stmt.Exec(kv[0], kv[1]); err != nil {
			return err
		}
	}

	return tx.Commit()
}
