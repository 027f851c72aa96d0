package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fulldump/apitest"
)

// Save writes a markdown snippet with the request/response pair of an
// acceptance test. Snippets are only written when API_EXAMPLES_PATH is
// set, so regular test runs do not touch the disk.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request

	s := &strings.Builder{}

	fmt.Fprintf(s, "# %s\n", title)
	fmt.Fprintf(s, "%s\n", trimDescription(description))

	query := request.URL.RawQuery
	if query != "" {
		query = "?" + query
	}

	// Curl example
	s.WriteString("Curl example:\n\n```sh\ncurl ")
	if request.Method != "GET" {
		fmt.Fprintf(s, "-X %s ", request.Method)
	}
	fmt.Fprintf(s, "\"https://example.com%s%s\"", request.URL.Path, query)
	for k, l := range request.Header {
		for _, v := range l {
			fmt.Fprintf(s, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if body := indentJSON(response.BodyRequestString()); body != "" {
		fmt.Fprintf(s, " \\\n-d '%s'", body)
	}
	s.WriteString("\n```\n\n\n")

	// Wire example
	s.WriteString("HTTP request/response example:\n\n```http\n")

	fmt.Fprintf(s, "%s %s%s %s\n", request.Method, request.URL.Path, query, request.Proto)
	s.WriteString("Host: example.com\n")
	for k, l := range request.Header {
		for _, v := range l {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	s.WriteString("\n")
	fmt.Fprintf(s, "%s\n\n", indentJSON(response.BodyRequestString()))

	fmt.Fprintf(s, "%s %s\n", response.Proto, response.Status)

	headerKeys := []string{}
	for k := range response.Header {
		headerKeys = append(headerKeys, k)
	}
	sort.Strings(headerKeys)
	for _, k := range headerKeys {
		if k == "Date" {
			// pin the date so regenerated examples do not churn
			s.WriteString("Date: Mon, 15 Aug 2022 02:08:13 GMT\n")
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(s, "%s: %s\n", k, v)
		}
	}
	s.WriteString("\n")
	fmt.Fprintf(s, "%s\n", indentJSON(response.BodyString()))
	s.WriteString("```\n\n\n")

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	fmt.Println("Saving", p)
	err := os.WriteFile(p, []byte(s.String()), 0666)
	if err != nil {
		fmt.Println("Saving err:", err)
	}
}

func indentJSON(body string) string {
	var i interface{}
	if json.Unmarshal([]byte(body), &i) != nil {
		return body
	}

	b, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}

	return string(b)
}

// trimDescription removes the indentation that a description picks up
// from being written inline as a Go string literal.
func trimDescription(d string) string {
	lines := strings.Split(d, "\n")

	minTabs := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c := 0
		for _, r := range line {
			if r != '\t' {
				break
			}
			c++
		}
		if minTabs < 0 || c < minTabs {
			minTabs = c
		}
	}
	if minTabs <= 0 {
		return d
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.Join(lines, "\n")
}
