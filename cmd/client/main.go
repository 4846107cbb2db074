// cmd/client/main.go - demo client walking the auth and board surfaces
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
)

type client struct {
	base string
	http *http.Client
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	email := flag.String("email", "demo@example.com", "account email")
	password := flag.String("password", "demo-password-123", "account password")
	flag.Parse()

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("create cookie jar: %v", err)
	}
	c := &client{base: *addr, http: &http.Client{Jar: jar}}

	// Register is allowed to fail with 409 when the demo account exists.
	status, body, err := c.do("POST", "/auth/register", map[string]any{
		"email":    *email,
		"name":     "Demo",
		"surname":  "User",
		"password": *password,
	})
	if err != nil {
		log.Fatalf("register: %v", err)
	}
	log.Printf("register: %d %s", status, body)

	status, body, err = c.do("POST", "/auth/login", map[string]any{
		"email":    *email,
		"password": *password,
	})
	if err != nil || status != http.StatusOK {
		log.Fatalf("login failed: %d %s %v", status, body, err)
	}
	log.Printf("login: %d %s", status, body)

	status, body, _ = c.do("GET", "/auth/me", nil)
	log.Printf("me: %d %s", status, body)

	status, body, err = c.do("POST", "/api/projects", map[string]any{
		"title":       "Demo board",
		"description": "Created by the demo client",
	})
	if err != nil || status != http.StatusCreated {
		log.Fatalf("create project failed: %d %s %v", status, body, err)
	}
	var project struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(body), &project); err != nil {
		log.Fatalf("decode project: %v", err)
	}
	log.Printf("project created: %s", project.ID)

	for _, title := range []string{"First card", "Second card"} {
		status, body, _ = c.do("POST", "/api/projects/"+project.ID+"/tasks", map[string]any{
			"title": title,
		})
		log.Printf("create task: %d %s", status, body)
	}

	status, body, _ = c.do("GET", "/api/projects/"+project.ID+"/tasks?status=TODO", nil)
	log.Printf("TODO column: %d %s", status, body)

	status, body, _ = c.do("PUT", "/api/projects/"+project.ID, map[string]any{"status": "ARCHIVED"})
	log.Printf("archive: %d %s", status, body)

	status, body, _ = c.do("PUT", "/api/projects/"+project.ID, map[string]any{
		"status": "ACTIVE",
		"title":  "Demo board (restored)",
	})
	log.Printf("unarchive+edit: %d %s", status, body)

	status, body, _ = c.do("DELETE", "/api/projects/"+project.ID, nil)
	log.Printf("delete without force (expect 409): %d %s", status, body)

	status, body, _ = c.do("DELETE", "/api/projects/"+project.ID+"?force=true", nil)
	log.Printf("delete with force: %d %s", status, body)

	status, _, _ = c.do("POST", "/auth/logout", nil)
	log.Printf("logout: %d", status)
}

func (c *client) do(method, path string, payload any) (int, string, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, "", fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		return 0, "", err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(data), nil
}
