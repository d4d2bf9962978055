// Package launch extracts URL headers from task files and opens them in
// the browser.
package launch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/savioxavier/termlink"
)

var openURL = browserOpen

// Headers parses the leading header block of a task file: "Key: value"
// lines up to the first pair of consecutive blank lines. Repeated keys
// accumulate in order; lines without a value are skipped.
func Headers(r io.Reader) (map[string][]string, error) {
	headers := make(map[string][]string)
	scanner := bufio.NewScanner(r)
	var prev string
	havePrev := false
	for scanner.Scan() {
		line := scanner.Text()
		if havePrev && prev == "" && line == "" {
			break
		}
		key, val, found := strings.Cut(strings.TrimSpace(line), ":")
		if found {
			if val = strings.TrimSpace(val); val != "" {
				key = strings.TrimSpace(key)
				headers[key] = append(headers[key], val)
			}
		}
		prev = line
		havePrev = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return headers, nil
}

// URLs returns the URL header values of the task file at path.
func URLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	headers, err := Headers(f)
	if err != nil {
		return nil, fmt.Errorf("parsing headers of %s: %w", path, err)
	}
	return headers["URL"], nil
}

// Open launches URLs from the task file at path. A single URL opens
// immediately; several are listed for selection read from in.
func Open(path string, in *bufio.Reader, out io.Writer) error {
	urls, err := URLs(path)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(out, "No URL headers found")
		return nil
	}
	choices := []int{0}
	if len(urls) > 1 {
		for i, url := range urls {
			fmt.Fprintf(out, "%d. %s\n", i+1, display(url))
		}
		choices, err = pick(in, out, len(urls))
		if err != nil {
			return err
		}
	}
	for _, choice := range choices {
		if err := openURL(urls[choice]); err != nil {
			return fmt.Errorf("opening %s: %w", urls[choice], err)
		}
	}
	return nil
}

// pick reads url selections until a valid set arrives. Empty input picks
// everything.
func pick(in *bufio.Reader, out io.Writer, count int) ([]int, error) {
	for {
		fmt.Fprintf(out, "Select urls [1-%d, empty launches all. Select many by spaces]: ", count)
		line, err := in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return nil, err
		}
		if line == "" {
			all := make([]int, count)
			for i := range all {
				all[i] = i
			}
			return all, nil
		}
		choices := make([]int, 0, count)
		valid := true
		for _, field := range strings.Fields(line) {
			n, err := strconv.Atoi(field)
			if err != nil {
				fmt.Fprintln(out, "Non-number found")
				valid = false
				break
			}
			if n < 1 || n > count {
				fmt.Fprintf(out, "No url %d\n", n)
				valid = false
				break
			}
			choices = append(choices, n-1)
		}
		if valid {
			return choices, nil
		}
	}
}

func display(url string) string {
	if termlink.SupportsHyperlinks() {
		return termlink.Link(url, url)
	}
	return url
}

func browserOpen(url string) error {
	if browser := strings.TrimSpace(os.Getenv("BROWSER")); browser != "" {
		if parts := strings.Fields(browser); len(parts) > 0 {
			return exec.Command(parts[0], append(parts[1:], url)...).Start()
		}
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
