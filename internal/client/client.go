// Package client is a typed consumer of the tracker REST API. Authentication
// state lives in an explicit Session that callers persist themselves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AsheemRahman/Expense-Tracker-Analytics/internal/core"
)

// Session holds the credentials of a logged-in user.
type Session struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// APIError carries the server's error envelope for a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// ExpensePatch names the fields of a partial expense update. Nil fields are
// omitted from the request; ClearCategory sends an explicit null categoryId.
type ExpensePatch struct {
	Title         *string
	Amount        *core.Money
	CategoryID    *int64
	ClearCategory bool
	Date          *core.Date
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetSession installs a previously saved session.
func (c *Client) SetSession(s *Session) { c.session = s }

// Session returns the current session, nil when logged out.
func (c *Client) Session() *Session { return c.session }

// Logout drops the session locally; tokens are short-lived and expire on
// their own server-side.
func (c *Client) Logout() { c.session = nil }

func (c *Client) Signup(ctx context.Context, name, email, password string) (core.User, error) {
	var resp struct {
		User core.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/signup",
		map[string]string{"name": name, "email": email, "password": password}, &resp)
	if err != nil {
		return core.User{}, err
	}
	return resp.User, nil
}

// Login authenticates and installs the resulting session on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp struct {
		Token string    `json:"token"`
		User  core.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}
	c.session = &Session{Token: resp.Token, User: resp.User}
	return c.session, nil
}

func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	var categories []core.Category
	if err := c.do(ctx, http.MethodGet, "/api/category", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	var category core.Category
	err := c.do(ctx, http.MethodPost, "/api/category", map[string]string{"name": name}, &category)
	return category, err
}

// Expenses lists all of the user's expenses.
func (c *Client) Expenses(ctx context.Context) ([]core.Expense, error) {
	return c.listExpenses(ctx, "/api/expenses")
}

// ExpensesForMonth lists the expenses of one calendar month.
func (c *Client) ExpensesForMonth(ctx context.Context, year, month int) ([]core.Expense, error) {
	return c.listExpenses(ctx, fmt.Sprintf("/api/expenses?month=%d&year=%d", month, year))
}

func (c *Client) listExpenses(ctx context.Context, path string) ([]core.Expense, error) {
	var expenses []core.Expense
	if err := c.do(ctx, http.MethodGet, path, nil, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (c *Client) CreateExpense(ctx context.Context, title string, amount core.Money, categoryID *int64, date core.Date) (core.Expense, error) {
	body := map[string]any{
		"title":  title,
		"amount": amount,
		"date":   date,
	}
	if categoryID != nil {
		body["categoryId"] = *categoryID
	}
	var expense core.Expense
	err := c.do(ctx, http.MethodPost, "/api/expenses", body, &expense)
	return expense, err
}

func (c *Client) UpdateExpense(ctx context.Context, id int64, patch ExpensePatch) (core.Expense, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Amount != nil {
		body["amount"] = *patch.Amount
	}
	if patch.ClearCategory {
		body["categoryId"] = nil
	} else if patch.CategoryID != nil {
		body["categoryId"] = *patch.CategoryID
	}
	if patch.Date != nil {
		body["date"] = *patch.Date
	}

	var expense core.Expense
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/expenses/%d", id), body, &expense)
	return expense, err
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil, nil)
}

// ExportCSV streams the CSV export into w.
func (c *Client) ExportCSV(ctx context.Context, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/expenses/export", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// checkStatus turns a non-2xx response into an APIError carrying the
// server's message. A 401 also drops the session, so the next command asks
// the user to log in again.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var envelope struct {
		Message string `json:"message"`
	}
	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.session = nil
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}
