package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"GroundwaterDash/api/constants"
	"GroundwaterDash/internal/reporting"
)

// reportRequest is the JSON body of every report endpoint. Dates accept any
// form the date normalizer understands: ISO or dd/mm/yyyy strings, RFC 3339
// timestamps or {"seconds": ..} objects.
type reportRequest struct {
	StartDate        interface{} `json:"startDate"`
	EndDate          interface{} `json:"endDate"`
	ApplicationTypes []string    `json:"applicationTypes"`
	ServicePurposes  []string    `json:"servicePurposes"`
	Constituencies   []string    `json:"constituencies"`
}

// requestError carries a message safe to return to the caller.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{msg: constants.FormatError(format, args...)}
}

func decodeRequest(body io.Reader) (reportRequest, error) {
	var req reportRequest
	if body == nil {
		return req, nil
	}
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, badRequest(constants.ErrInvalidJSON)
	}
	return req, nil
}

func parseBound(v interface{}, format string) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}
	t := reporting.NormalizeDate(v)
	if t == nil {
		return nil, badRequest(format, fmt.Sprint(v))
	}
	return t, nil
}

var (
	knownPurposes = func() map[reporting.Purpose]bool {
		m := make(map[reporting.Purpose]bool, len(reporting.Purposes))
		for _, p := range reporting.Purposes {
			m[p] = true
		}
		return m
	}()
	knownAppTypes = func() map[reporting.ApplicationType]bool {
		m := make(map[reporting.ApplicationType]bool, len(reporting.ApplicationTypes))
		for _, t := range reporting.ApplicationTypes {
			m[t] = true
		}
		return m
	}()
)

// filters validates the request and converts it to report filters.
func (req reportRequest) filters(now time.Time) (reporting.ReportFilters, error) {
	f := reporting.ReportFilters{Now: now, Constituencies: req.Constituencies}
	var err error
	if f.Start, err = parseBound(req.StartDate, constants.ErrInvalidStartDate); err != nil {
		return f, err
	}
	if f.End, err = parseBound(req.EndDate, constants.ErrInvalidEndDate); err != nil {
		return f, err
	}
	if (f.Start == nil) != (f.End == nil) {
		return f, badRequest(constants.ErrPartialPeriod)
	}
	if f.HasWindow() && f.Start.After(*f.End) {
		return f, badRequest(constants.ErrPeriodReversed)
	}
	for _, p := range req.ServicePurposes {
		if !knownPurposes[reporting.Purpose(p)] {
			return f, badRequest(constants.ErrUnknownPurpose, p)
		}
		f.ServicePurposes = append(f.ServicePurposes, reporting.Purpose(p))
	}
	for _, t := range req.ApplicationTypes {
		if !knownAppTypes[reporting.ApplicationType(t)] {
			return f, badRequest(constants.ErrUnknownAppType, t)
		}
		f.ApplicationTypes = append(f.ApplicationTypes, reporting.ApplicationType(t))
	}
	return f, nil
}
