package constants

const (
	// General Settings
	SettingWorkStart       = "work_start"
	SettingWorkEnd         = "work_end"
	SettingSlotIntervalMin = "slot_interval_min"
	SettingTimezone        = "timezone"
	SettingGroupwareUserID = "gw_user_id"

	// Default Settings Values
	DefaultWorkStart       = "09:00"
	DefaultWorkEnd         = "18:00"
	DefaultSlotIntervalMin = 30
	DefaultTimezone        = "Asia/Seoul"
)
