package controllers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/labstack/echo/v4"
)

// Date accepts either a calendar date (2006-01-02) or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

type MessageResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type TimeParams struct {
	TimeRange string `query:"timeRange" validate:"omitempty,oneof=7days 30days 90days currMonth prevMonth"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}

func (p TimeParams) filter() service.TimeFilter {
	return service.TimeFilter{TimeRange: p.TimeRange, StartDate: p.StartDate, EndDate: p.EndDate}
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func exportDate(svc *service.LedgerService) string {
	return svc.Now().UTC().Format("2006-01-02")
}
