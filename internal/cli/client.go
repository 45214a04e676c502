package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// FlowResponse — flow из API.
type FlowResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserID      string `json:"user_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// FlowSummaryResponse — flow в списочной выдаче.
type FlowSummaryResponse struct {
	FlowResponse

	UserName string            `json:"user_name"`
	Write    bool              `json:"write"`
	Versions []VersionResponse `json:"version_list"`
}

// VersionResponse — версия flow из API.
type VersionResponse struct {
	ID          int64           `json:"id"`
	FlowID      string          `json:"flow_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	IsCurrent   bool            `json:"is_current"`
	UserID      string          `json:"user_id"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// --- Request types ---

// CreateFlowRequest — создание flow.
type CreateFlowRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// CreateVersionRequest — создание версии flow.
type CreateVersionRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// UpdateVersionRequest — частичное обновление версии.
type UpdateVersionRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// CompareRequest — сравнение выходов узла между версиями.
type CompareRequest struct {
	QuestionList []string       `json:"question_list"`
	VersionList  []int64        `json:"version_list"`
	NodeID       string         `json:"node_id"`
	Inputs       map[string]any `json:"inputs,omitempty"`
}

// ListFlowsOpts — параметры фильтрации flows.
type ListFlowsOpts struct {
	Name     string
	Status   string
	Page     int
	PageSize int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Flowlab API.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewClient создаёт клиент для API. userID уходит в заголовок X-User-ID
// каждого запроса.
func NewClient(baseURL, userID string) *Client {
	return &Client{
		baseURL: baseURL,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: 150 * time.Second, // сравнение ждёт движок, таймаут с запасом
		},
	}
}

// --- Flows ---

// ListFlows возвращает flows, видимые пользователю.
func (c *Client) ListFlows(opts ListFlowsOpts) ([]FlowSummaryResponse, error) {
	params := url.Values{}
	if opts.Name != "" {
		params.Set("name", opts.Name)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Page > 0 {
		params.Set("page", fmt.Sprintf("%d", opts.Page))
	}
	if opts.PageSize > 0 {
		params.Set("page_size", fmt.Sprintf("%d", opts.PageSize))
	}

	var flows []FlowSummaryResponse
	err := c.list("/api/v1/flows", params, &flows)
	return flows, err
}

// CreateFlow создаёт новый flow с первичной версией.
func (c *Client) CreateFlow(req CreateFlowRequest) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.post("/api/v1/flows", req, &flow)
	return &flow, err
}

// GetFlow возвращает flow по ID.
func (c *Client) GetFlow(id string) (*FlowResponse, error) {
	var flow FlowResponse
	err := c.get("/api/v1/flows/"+id, &flow)
	return &flow, err
}

// --- Versions ---

// ListVersions возвращает версии flow.
func (c *Client) ListVersions(flowID string) ([]VersionResponse, error) {
	var versions []VersionResponse
	err := c.list("/api/v1/flows/"+flowID+"/versions", nil, &versions)
	return versions, err
}

// CreateVersion создаёт новую версию flow.
func (c *Client) CreateVersion(flowID string, req CreateVersionRequest) (*VersionResponse, error) {
	var version VersionResponse
	err := c.post("/api/v1/flows/"+flowID+"/versions", req, &version)
	return &version, err
}

// GetVersion возвращает версию по ID.
func (c *Client) GetVersion(id int64) (*VersionResponse, error) {
	var version VersionResponse
	err := c.get(fmt.Sprintf("/api/v1/versions/%d", id), &version)
	return &version, err
}

// UpdateVersion обновляет поля версии.
func (c *Client) UpdateVersion(id int64, req UpdateVersionRequest) (*VersionResponse, error) {
	var version VersionResponse
	err := c.put(fmt.Sprintf("/api/v1/versions/%d", id), req, &version)
	return &version, err
}

// DeleteVersion удаляет версию.
func (c *Client) DeleteVersion(id int64) error {
	return c.delete(fmt.Sprintf("/api/v1/versions/%d", id))
}

// SetCurrentVersion переключает текущую версию flow.
func (c *Client) SetCurrentVersion(flowID string, versionID int64) error {
	resp, err := c.do(http.MethodPost, fmt.Sprintf("/api/v1/flows/%s/versions/%d/current", flowID, versionID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

// --- Compare ---

// Compare сравнивает выход узла между версиями. Результат — массив
// слотов по порядку вопросов; в слоте ответы по идентификаторам версий.
func (c *Client) Compare(req CompareRequest) ([]map[string]any, error) {
	var answers []map[string]any
	err := c.post("/api/v1/flows/compare", req, &answers)
	return answers, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-User-ID", c.userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
