package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/codemon-ai/make-meeting-room/internal/keyring"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
	"github.com/codemon-ai/make-meeting-room/internal/validation"
)

// SetupInput is what the setup wizard collects.
type SetupInput struct {
	UserID    string
	Password  string
	WorkStart string
	WorkEnd   string
	SlotMin   string
	Timezone  string
}

// NewSetupForm creates the setup wizard, prefilled from current settings.
func NewSetupForm(in *SetupInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("그룹웨어 아이디").
				Value(&in.UserID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("아이디를 입력하세요")
					}
					return nil
				}),
			huh.NewInput().
				Title("비밀번호").
				Description("OS 키체인에 저장됩니다").
				EchoMode(huh.EchoModePassword).
				Value(&in.Password),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("업무 시작 (HH:MM)").
				Value(&in.WorkStart).
				Validate(validateClock),
			huh.NewInput().
				Title("업무 종료 (HH:MM)").
				Value(&in.WorkEnd).
				Validate(validateClock),
			huh.NewSelect[string]().
				Title("슬롯 간격").
				Options(
					huh.NewOption("15분", "15"),
					huh.NewOption("30분", "30"),
					huh.NewOption("60분", "60"),
				).
				Value(&in.SlotMin),
			huh.NewInput().
				Title("시간대").
				Value(&in.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return fmt.Errorf("알 수 없는 시간대: %s", s)
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateClock(s string) error {
	_, err := models.ParseClock(s)
	return err
}

// RunSetup shows the setup wizard and saves the result.
func RunSetup(c *Context) error {
	s, err := c.Settings()
	if err != nil {
		return err
	}
	in := SetupInput{
		UserID:    c.UserID(s),
		WorkStart: s.WorkStart,
		WorkEnd:   s.WorkEnd,
		SlotMin:   strconv.Itoa(s.SlotIntervalMin),
		Timezone:  s.Timezone,
	}
	if err := NewSetupForm(&in).Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	return ApplySetup(c, in)
}

// ApplySetup validates and stores setup input. An empty password keeps
// whatever the keyring already holds.
func ApplySetup(c *Context, in SetupInput) error {
	s, err := c.Settings()
	if err != nil {
		return err
	}

	slot, err := strconv.Atoi(strings.TrimSpace(in.SlotMin))
	if err != nil {
		return fmt.Errorf("invalid slot interval %q", in.SlotMin)
	}
	s.GroupwareUserID = strings.TrimSpace(in.UserID)
	s.WorkStart = strings.TrimSpace(in.WorkStart)
	s.WorkEnd = strings.TrimSpace(in.WorkEnd)
	s.SlotIntervalMin = slot
	s.Timezone = strings.TrimSpace(in.Timezone)

	if s.GroupwareUserID == "" {
		return fmt.Errorf("groupware user id is required")
	}
	result := validation.New().ValidateSettings(s)
	if err := result.Err(); err != nil {
		return err
	}
	if err := c.Store.SaveSettings(s); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if in.Password != "" {
		if err := keyring.SetPassword(s.GroupwareUserID, in.Password); err != nil {
			logger.Warn("failed to store password in keyring", "error", err)
			c.Printf("⚠️  비밀번호를 키체인에 저장하지 못했습니다: %v\n", err)
			c.Printf("   GW_PASSWORD 환경 변수를 사용하세요.\n")
			return nil
		}
	}

	c.Printf("✓ 설정이 저장되었습니다 (%s, %s-%s)\n", s.GroupwareUserID, s.WorkStart, s.WorkEnd)
	return nil
}
