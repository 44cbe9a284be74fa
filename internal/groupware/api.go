package groupware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// envelope is the portal's usual response wrapper.
type envelope struct {
	ResultCode    models.FlexString `json:"resultCode"`
	ResultMessage string            `json:"resultMessage"`
	Result        json.RawMessage   `json:"result"`
	Status        string            `json:"status"`
}

type reservationQuery struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	FavoriteYn string `json:"favoriteYn"`
}

// FetchReservations lists every reservation of every resource on date.
// Elements that fail to decode are skipped; one bad element never fails
// the whole listing.
func (s *Session) FetchReservations(ctx context.Context, date string) ([]models.RawReservation, error) {
	body, err := s.postJSON(ctx, pathReservationList, reservationQuery{
		Start:      date + "T00:00:00",
		End:        date + "T23:59:59",
		FavoriteYn: "N",
	})
	if err != nil {
		return nil, err
	}

	elements, err := reservationElements(body)
	if err != nil {
		return nil, err
	}

	out := make([]models.RawReservation, 0, len(elements))
	for i, el := range elements {
		var rec models.RawReservation
		if err := json.Unmarshal(el, &rec); err != nil {
			logger.Debug("skipping undecodable reservation", "index", i, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// reservationElements accepts a bare array, {result: [...]} or
// {result: {resList: [...]}}.
func reservationElements(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		return decodeArray(body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected reservation response: %w", err)
	}
	if code, ok := env.ResultCode.Int(); ok && code != 0 {
		return nil, fmt.Errorf("portal error %d: %s", code, env.ResultMessage)
	}

	result := bytes.TrimSpace(env.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, nil
	}
	if result[0] == '[' {
		return decodeArray(result)
	}

	var wrapped struct {
		ResList json.RawMessage `json:"resList"`
	}
	if err := json.Unmarshal(result, &wrapped); err != nil {
		return nil, fmt.Errorf("unexpected reservation result: %w", err)
	}
	if len(wrapped.ResList) == 0 || bytes.Equal(wrapped.ResList, []byte("null")) {
		return nil, nil
	}
	return decodeArray(wrapped.ResList)
}

func decodeArray(data []byte) ([]json.RawMessage, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("unexpected reservation list: %w", err)
	}
	return elements, nil
}

// FetchResourceTree returns the portal's resource tree roots.
func (s *Session) FetchResourceTree(ctx context.Context) ([]models.ResourceNode, error) {
	body, err := s.postJSON(ctx, pathResourceTree, struct{}{})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected resource tree response: %w", err)
	}

	result := bytes.TrimSpace(env.Result)
	if len(result) == 0 {
		return nil, nil
	}
	if result[0] == '[' {
		var nodes []models.ResourceNode
		if err := json.Unmarshal(result, &nodes); err != nil {
			return nil, fmt.Errorf("unexpected resource tree: %w", err)
		}
		return nodes, nil
	}
	var node models.ResourceNode
	if err := json.Unmarshal(result, &node); err != nil {
		return nil, fmt.Errorf("unexpected resource tree: %w", err)
	}
	return []models.ResourceNode{node}, nil
}

type subscriber struct {
	UserType string `json:"userType"`
	OrgType  string `json:"orgType"`
	GroupSeq string `json:"groupSeq"`
	CompSeq  string `json:"compSeq"`
	DeptSeq  string `json:"deptSeq"`
	EmpSeq   string `json:"empSeq"`
	EmpName  string `json:"empName"`
	LoginID  string `json:"loginId"`
	DeptName string `json:"deptName"`
	DutyCode string `json:"dutyCode"`
	Path     string `json:"path"`
	SuperKey string `json:"superKey"`
}

type insertPayload struct {
	ResSeq            string       `json:"resSeq"`
	ReqText           string       `json:"reqText"`
	DescText          string       `json:"descText"`
	AlldayYn          string       `json:"alldayYn"`
	ApprYn            string       `json:"apprYn"`
	StartDate         string       `json:"startDate"`
	EndDate           string       `json:"endDate"`
	ResName           string       `json:"resName"`
	ResSubscriberList []subscriber `json:"resSubscriberList"`
}

func (s *Session) buildPayload(req models.SubmitRequest) insertPayload {
	sub := s.cfg.Subscriber
	loginID := sub.LoginID
	if loginID == "" {
		loginID = s.cfg.UserID
	}
	return insertPayload{
		ResSeq:    strconv.Itoa(req.Room.ResSeq),
		ReqText:   req.Title,
		DescText:  req.Description,
		AlldayYn:  "N",
		ApprYn:    "N",
		StartDate: req.Date + " " + req.Interval.Start.String() + ":00",
		EndDate:   req.Date + " " + req.Interval.End.String() + ":00",
		ResName:   req.Room.Name,
		ResSubscriberList: []subscriber{{
			UserType: sub.UserType,
			OrgType:  sub.OrgType,
			GroupSeq: sub.GroupSeq,
			CompSeq:  sub.CompSeq,
			DeptSeq:  sub.DeptSeq,
			EmpSeq:   sub.EmpSeq,
			EmpName:  sub.EmpName,
			LoginID:  loginID,
			DeptName: sub.DeptName,
			DutyCode: sub.DutyCode,
			Path:     sub.Path,
			SuperKey: sub.SuperKey,
		}},
	}
}

// Submit sends a reservation. A portal-side rejection is reported through
// SubmitResult.Accepted, not as an error.
func (s *Session) Submit(ctx context.Context, req models.SubmitRequest) (models.SubmitResult, error) {
	if req.Room.ResSeq == 0 {
		return models.SubmitResult{}, fmt.Errorf("room %s has no portal resource id", req.Room.Name)
	}
	body, err := s.postJSON(ctx, pathInsertReservation, s.buildPayload(req))
	if err != nil {
		return models.SubmitResult{}, err
	}
	res := parseSubmitResponse(body)
	logger.Info("reservation submitted", "room", req.Room.Name, "date", req.Date,
		"time", req.Interval.String(), "accepted", res.Accepted, "message", res.Message)
	return res, nil
}

func parseSubmitResponse(body []byte) models.SubmitResult {
	trimmed := bytes.TrimSpace(body)

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return models.SubmitResult{Accepted: strings.EqualFold(text, "SUCCESS"), Message: text}
	}
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		text = string(trimmed)
		return models.SubmitResult{Accepted: strings.EqualFold(text, "SUCCESS"), Message: text}
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return models.SubmitResult{Message: "unreadable portal response"}
	}

	var resultText string
	_ = json.Unmarshal(env.Result, &resultText)

	code, hasCode := env.ResultCode.Int()
	accepted := (hasCode && code == 0) ||
		env.ResultMessage == "SUCCESS" ||
		env.Status == "SUCCESS" ||
		strings.Contains(resultText, "SUCCESS")

	msg := env.ResultMessage
	if msg == "" {
		msg = resultText
	}
	if msg == "" && !accepted {
		msg = "reservation rejected by portal"
	}
	return models.SubmitResult{Accepted: accepted, Message: msg}
}

// DefaultSubscriber fills portal defaults for fields left empty.
func DefaultSubscriber(sub models.Subscriber) models.Subscriber {
	if sub.UserType == "" {
		sub.UserType = "10"
	}
	if sub.OrgType == "" {
		sub.OrgType = "U"
	}
	if sub.GroupSeq == "" {
		sub.GroupSeq = "rsquare"
	}
	if sub.CompSeq == "" {
		sub.CompSeq = "1000"
	}
	return sub
}
