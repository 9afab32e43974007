// Command panelctl drives a running weather panel over its HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

const usage = `usage: panelctl [-addr URL] <command>

commands:
  view                 print the displayed view
  controls             print the unit toggle and chosen day
  units <system>       set imperial or metric
  select <label|index> choose a day by label or offset from today
  frame <file>         save the latest frame as PNG
  health               print the health report
  close                close the panel
`

func main() {
	baseURL := flag.String("addr", "http://localhost:8080", "Base URL of the panel API")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	if err := run(client, *baseURL, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(client *http.Client, baseURL string, args []string) error {
	switch args[0] {
	case "view":
		return printJSON(client, http.MethodGet, baseURL+"/api/view", nil)
	case "controls":
		return printJSON(client, http.MethodGet, baseURL+"/api/controls", nil)
	case "health":
		return printJSON(client, http.MethodGet, baseURL+"/api/health", nil)
	case "units":
		if len(args) != 2 {
			return fmt.Errorf("units takes one argument")
		}
		return printJSON(client, http.MethodPut, baseURL+"/api/units", map[string]string{"units": args[1]})
	case "select":
		if len(args) != 2 {
			return fmt.Errorf("select takes one argument")
		}
		body := map[string]interface{}{"label": args[1]}
		if i, err := strconv.Atoi(args[1]); err == nil {
			body = map[string]interface{}{"index": i}
		}
		return printJSON(client, http.MethodPut, baseURL+"/api/selection", body)
	case "frame":
		if len(args) != 2 {
			return fmt.Errorf("frame takes an output file")
		}
		data, err := call(client, http.MethodGet, baseURL+"/api/frame.png", nil)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Saved %d bytes to %s\n", len(data), args[1])
		return nil
	case "close":
		_, err := call(client, http.MethodPost, baseURL+"/api/close", nil)
		return err
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func call(client *http.Client, method, url string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: %s: %s", method, url, resp.Status, bytes.TrimSpace(data))
	}
	return data, nil
}

func printJSON(client *http.Client, method, url string, body interface{}) error {
	data, err := call(client, method, url, body)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	fmt.Println(out.String())
	return nil
}
