package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dailydiet/pkg/middleware"
)

// apiClient talks to the diet API and keeps the session cookie between calls.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string) (*apiClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Jar: jar, Timeout: 5 * time.Second},
	}, nil
}

// do sends body as JSON when non-nil and returns the status and raw body.
func (c *apiClient) do(method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// sessionID returns the sessionId cookie currently held for the API, if any.
func (c *apiClient) sessionID() string {
	u, err := url.Parse(c.base + "/")
	if err != nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == middleware.SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// logout drops every stored cookie.
func (c *apiClient) logout() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.http.Jar = jar
	return nil
}

// parseMealPatch turns field=value arguments into an update body.
func parseMealPatch(args []string) (map[string]any, error) {
	patch := map[string]any{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		switch key {
		case "name", "description":
			patch[key] = value
		case "diet":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("diet must be true or false, got %q", value)
			}
			patch[key] = b
		case "date_time":
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return nil, fmt.Errorf("date_time must be RFC 3339, got %q", value)
			}
			patch[key] = t
		default:
			return nil, fmt.Errorf("unknown field %q", key)
		}
	}
	return patch, nil
}

func (sh *shell) call(method, path string, body any) {
	status, data, err := sh.api.do(method, path, body)
	if err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	printResponse(status, data)
}

func (sh *shell) register(args []string) {
	age, err := strconv.Atoi(args[1])
	if err != nil {
		usage("age must be an integer")
		return
	}
	weight, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		usage("weight must be a number")
		return
	}
	sh.call("POST", "/users/register", map[string]any{
		"name":     args[0],
		"age":      age,
		"weight":   weight,
		"email":    args[3],
		"password": args[4],
	})
}

func (sh *shell) logout() {
	if err := sh.api.logout(); err != nil {
		fmt.Printf("  %s[x] %v%s\n", Red, err, Reset)
		return
	}
	fmt.Printf("  %s[ok] session cleared%s\n", Green, Reset)
}

func (sh *shell) addMeal(args []string) {
	diet, err := strconv.ParseBool(args[0])
	if err != nil {
		usage("diet must be true or false")
		return
	}
	sh.call("POST", "/meals", map[string]any{
		"diet":        diet,
		"name":        args[1],
		"description": strings.Join(args[2:], " "),
	})
}

func (sh *shell) updateMeal(id string, args []string) {
	patch, err := parseMealPatch(args)
	if err != nil {
		usage(err.Error())
		return
	}
	sh.call("PUT", "/meals/"+id, patch)
}

func printResponse(status int, body []byte) {
	color := Green
	if status >= 400 {
		color = Red
	}
	fmt.Printf("  %s[%d]%s\n", color, status, Reset)
	if len(body) == 0 {
		return
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "  ", "  "); err != nil {
		fmt.Printf("  %s\n", body)
		return
	}
	fmt.Printf("  %s\n", pretty.String())
}
