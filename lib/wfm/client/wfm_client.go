package wfmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"wfm-shifts-connector/config"
	wfmapimodels "wfm-shifts-connector/models/api/wfm"
)

type Provider interface {
	RequestToken(ctx context.Context) (*wfmapimodels.TokenResponse, error)
	Logon(ctx context.Context, endpoint, accessToken string) (*wfmapimodels.LogonResponse, error)

	FetchShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleShift, error)
	FetchOpenShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleOpenShift, error)

	SubmitOpenShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.OpenShiftRequest) (*wfmapimodels.RequestResponse, error)
	GetOpenShiftRequestStatus(ctx context.Context, endpoint, jsession, wfmRequestID string) (*wfmapimodels.RequestResponse, error)
	UpdateOpenShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error)
	SubmitSwapShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.SwapShiftRequest) (*wfmapimodels.RequestResponse, error)
	UpdateSwapShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error)
}

var Instance Provider

func NewProvider() {
	Instance = &impl{
		tokenEndpoint: config.Conf.Wfm.TokenEndpoint,
		authToken:     config.Conf.Wfm.AuthorizationToken,
		username:      config.Conf.Wfm.SuperUsername,
		password:      config.Conf.Wfm.SuperUserPassword,
	}
}

type impl struct {
	tokenEndpoint string
	authToken     string
	username      string
	password      string
}

const (
	logonPath             = "/wfc/api/v1/logon"
	shiftsPath            = "/wfc/api/v1/schedule/shifts"
	openShiftsPath        = "/wfc/api/v1/schedule/open-shifts"
	openShiftReqPath      = "/wfc/api/v1/requests/open-shift"
	openShiftReqStatePath = "/wfc/api/v1/requests/open-shift/status"
	swapReqPath           = "/wfc/api/v1/requests/swap-shift"
	swapReqStatePath      = "/wfc/api/v1/requests/swap-shift/status"
)

func (i impl) RequestToken(ctx context.Context) (*wfmapimodels.TokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	r, _ := http.NewRequestWithContext(ctx, "POST", i.tokenEndpoint, strings.NewReader(data.Encode()))
	r.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Add("Authorization", i.authToken)
	resp := wfmapimodels.TokenResponse{}

	logger := log.
		WithField("external_request", i.tokenEndpoint)

	err := i.sendRequest(logger, r, &resp, "")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (i impl) Logon(ctx context.Context, endpoint, accessToken string) (*wfmapimodels.LogonResponse, error) {
	uri := endpoint + logonPath
	body, err := json.Marshal(map[string]string{
		"username": i.username,
		"password": i.password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize request")
	}

	r, _ := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewBuffer(body))
	r.Header.Add("Content-Type", "application/json")
	resp := wfmapimodels.LogonResponse{}

	logger := log.
		WithField("external_request", uri)

	err = i.sendRequest(logger, r, &resp, accessToken)
	if err != nil {
		return nil, err
	}
	if resp.Status != "Success" {
		return nil, errors.Errorf("WFM logon refused: %v", resp.ErrorMessage)
	}
	return &resp, nil
}

func (i impl) FetchShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleShift, error) {
	uri := fmt.Sprintf("%v%v?org_job_path=%v&start_date=%v&end_date=%v",
		endpoint, shiftsPath, url.QueryEscape(orgJobPath), url.QueryEscape(startDate), url.QueryEscape(endDate))

	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	resp := wfmapimodels.ScheduleResponse{}

	logger := log.
		WithField("external_request", uri)

	err := i.sendRequest(logger, r, &resp, jsession)
	if err != nil {
		return nil, err
	}
	return resp.Shifts, nil
}

func (i impl) FetchOpenShifts(ctx context.Context, endpoint, jsession, orgJobPath, startDate, endDate string) ([]wfmapimodels.ScheduleOpenShift, error) {
	uri := fmt.Sprintf("%v%v?org_job_path=%v&start_date=%v&end_date=%v",
		endpoint, openShiftsPath, url.QueryEscape(orgJobPath), url.QueryEscape(startDate), url.QueryEscape(endDate))

	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	resp := wfmapimodels.OpenShiftScheduleResponse{}

	logger := log.
		WithField("external_request", uri)

	err := i.sendRequest(logger, r, &resp, jsession)
	if err != nil {
		return nil, err
	}
	return resp.OpenShifts, nil
}

func (i impl) SubmitOpenShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.OpenShiftRequest) (*wfmapimodels.RequestResponse, error) {
	return i.postRequest(ctx, endpoint+openShiftReqPath, jsession, req)
}

func (i impl) GetOpenShiftRequestStatus(ctx context.Context, endpoint, jsession, wfmRequestID string) (*wfmapimodels.RequestResponse, error) {
	uri := fmt.Sprintf("%v%v?request_id=%v", endpoint, openShiftReqStatePath, url.QueryEscape(wfmRequestID))

	r, _ := http.NewRequestWithContext(ctx, "GET", uri, nil)
	resp := wfmapimodels.RequestResponse{}

	logger := log.
		WithField("external_request", uri)

	err := i.sendRequest(logger, r, &resp, jsession)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (i impl) UpdateOpenShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error) {
	return i.postRequest(ctx, endpoint+openShiftReqStatePath, jsession, upd)
}

func (i impl) SubmitSwapShiftRequest(ctx context.Context, endpoint, jsession string, req wfmapimodels.SwapShiftRequest) (*wfmapimodels.RequestResponse, error) {
	return i.postRequest(ctx, endpoint+swapReqPath, jsession, req)
}

func (i impl) UpdateSwapShiftRequestStatus(ctx context.Context, endpoint, jsession string, upd wfmapimodels.StatusUpdate) (*wfmapimodels.RequestResponse, error) {
	return i.postRequest(ctx, endpoint+swapReqStatePath, jsession, upd)
}

func (i impl) postRequest(ctx context.Context, uri, jsession string, payload interface{}) (*wfmapimodels.RequestResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize request")
	}

	r, _ := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewBuffer(body))
	r.Header.Add("Content-Type", "application/json")
	resp := wfmapimodels.RequestResponse{}

	logger := log.
		WithField("external_request", uri).
		WithField("request_body", string(body))

	err = i.sendRequest(logger, r, &resp, jsession)
	if err != nil {
		return nil, err
	}
	if resp.Status == "Failure" {
		return nil, errors.Errorf("WFM rejected the request: %v", resp.Message)
	}
	return &resp, nil
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request, resp interface{}, session string) error {
	r.Header.Add("User-Agent", "WfmShiftsConnector/1.0")
	if session != "" {
		r.Header.Add("Authorization", fmt.Sprintf("Bearer %v", session))
	}
	client := &http.Client{}
	response, err := client.Do(r)
	if err != nil {
		logger.WithError(err).Error("failed to reach the WFM endpoint")
		return errors.Wrap(err, "failed to reach the WFM endpoint")
	}
	defer response.Body.Close()
	responseBody, _ := io.ReadAll(response.Body)
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if resp != nil {
			err = json.Unmarshal(responseBody, resp)
			if err != nil {
				return errors.Wrap(err, "failed to parse response")
			}
		}
		return nil
	}

	logger.
		WithField("response_body", string(responseBody)).
		WithField("status_code", response.StatusCode).
		Error("WFM request failed")
	return errors.Errorf("WFM request failed with status %v", response.StatusCode)
}
