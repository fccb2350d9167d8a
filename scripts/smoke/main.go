// Command smoke exercises the full offer-letter flow against a running
// instance: upload a CSV, render one letter, build the archive and follow
// the signed download URL. Exits non-zero on the first failure.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

const sampleCSV = `Student Name,Nationality,Program Name,Email
Alice Mwangi,Kenya,B.Tech AIML,alice@example.com
Bob Otieno,Kenya,Diploma in Mechanical Engineering,bob@example.com
`

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	var (
		base    string
		csvPath string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&csvPath, "csv", "", "CSV file to upload (built-in sample when empty)")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	csvBody := sampleCSV
	if csvPath != "" {
		data, err := os.ReadFile(csvPath)
		if err != nil {
			log.Fatalf("failed to read csv: %v", err)
		}
		csvBody = string(data)
	}

	client := &http.Client{Timeout: timeout}
	base = strings.TrimRight(base, "/")

	batchID := uploadBatch(client, base, csvBody)
	fmt.Printf("batch created: %s\n", batchID)

	letter := fetch(client, base+"/batches/"+batchID+"/letters/0")
	if !bytes.HasPrefix(letter, []byte("%PDF")) {
		log.Fatalf("letter 0 is not a PDF (%d bytes)", len(letter))
	}
	fmt.Printf("letter rendered: %d bytes\n", len(letter))

	downloadURL := buildArchive(client, base, batchID)
	fmt.Printf("archive ready: %s\n", downloadURL)

	zipData := fetch(client, strings.TrimSuffix(base, "/api/v1")+downloadURL)
	if !bytes.HasPrefix(zipData, []byte("PK")) {
		log.Fatalf("download is not a zip archive (%d bytes)", len(zipData))
	}
	fmt.Printf("archive downloaded: %d bytes\n", len(zipData))
	fmt.Println("smoke test passed")
}

func uploadBatch(client *http.Client, base, csvBody string) string {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("offer_date", time.Now().Format("2006-01-02"))
	_ = mw.WriteField("start_date", time.Now().AddDate(0, 2, 0).Format("2006-01-02"))
	_ = mw.WriteField("ref_number_start", "1000")
	part, err := mw.CreateFormFile("file", "students.csv")
	if err != nil {
		log.Fatalf("failed to build upload: %v", err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		log.Fatalf("failed to build upload: %v", err)
	}
	_ = mw.Close()

	resp, err := client.Post(base+"/batches", mw.FormDataContentType(), &buf)
	if err != nil {
		log.Fatalf("upload request failed: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Fatalf("decode upload response: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("upload failed with %d: %+v", resp.StatusCode, env.Error)
	}
	var payload struct {
		BatchID string `json:"batch_id"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.BatchID == "" {
		log.Fatalf("upload response missing batch_id")
	}
	return payload.BatchID
}

func buildArchive(client *http.Client, base, batchID string) string {
	resp, err := client.Post(base+"/batches/"+batchID+"/letters/archive", "application/json", nil)
	if err != nil {
		log.Fatalf("archive request failed: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Fatalf("decode archive response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("archive failed with %d: %+v", resp.StatusCode, env.Error)
	}
	var payload struct {
		DownloadURL string `json:"download_url"`
		Rendered    int    `json:"rendered"`
		Failed      int    `json:"failed"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.DownloadURL == "" {
		log.Fatalf("archive response missing download_url")
	}
	if payload.Failed > 0 {
		fmt.Printf("warning: %d letters failed to render\n", payload.Failed)
	}
	return payload.DownloadURL
}

func fetch(client *http.Client, url string) []byte {
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Fatalf("GET %s returned %d: %s", url, resp.StatusCode, body)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("read %s: %v", url, err)
	}
	return data
}
