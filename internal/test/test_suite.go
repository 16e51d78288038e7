// Command-line stress test that simulates concurrent likes against one post
// and produces CSV + HTML reports. The like counter must equal the number of
// distinct likers afterwards; any drift means the store update is not atomic.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sync"
	"time"
)

const baseURL = "http://127.0.0.1:8080"

// likeResult records one simulated user's like attempt.
type likeResult struct {
	User       string
	StatusCode int
	ErrMessage string
	Timestamp  time.Time
}

// ======================= HTTP helpers =======================

func newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Timeout: 10 * time.Second, Jar: jar}
}

// doPostJSON serializes a JSON body and sends a POST request.
func doPostJSON(client *http.Client, url string, body any) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

// ======================= register / login / post helpers =======================

func registerUser(client *http.Client, username, password string) error {
	body := map[string]any{
		"username": username,
		"password": password,
		"fullName": "Stress User",
		"email":    username + "@example.com",
		"phone":    "15551234567",
		"age":      30,
	}
	status, data, err := doPostJSON(client, baseURL+"/register", body)
	if err != nil {
		return err
	}
	if status != 200 && status != 400 { // 400 means it already exists, acceptable
		return fmt.Errorf("register status %d body=%s", status, string(data))
	}
	return nil
}

// loginUser authenticates and leaves the token cookie in the client's jar.
func loginUser(client *http.Client, username, password string) error {
	status, data, err := doPostJSON(client, baseURL+"/login", map[string]string{
		"username": username, "password": password,
	})
	if err != nil {
		return err
	}
	if status != 200 {
		return fmt.Errorf("login status %d body=%s", status, string(data))
	}
	return nil
}

// createPost publishes one post with a tiny cover and returns its id.
func createPost(client *http.Client, title string) (string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("title", title)
	_ = mw.WriteField("summary", "stress summary")
	_ = mw.WriteField("content", "<p>stress content</p>")
	part, _ := mw.CreateFormFile("file", "cover.png")
	_, _ = part.Write([]byte("fake image bytes"))
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/post", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("create post status %d body=%s", resp.StatusCode, string(data))
	}
	var post map[string]any
	if err := json.Unmarshal(data, &post); err != nil {
		return "", err
	}
	id, _ := post["id"].(string)
	if id == "" {
		return "", fmt.Errorf("create post: no id in %s", string(data))
	}
	return id, nil
}

func likePost(client *http.Client, postID string) (int, error) {
	req, _ := http.NewRequest(http.MethodPut, baseURL+"/post/"+postID+"/like", nil)
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.ReadAll(resp.Body)
	return resp.StatusCode, nil
}

func fetchLikes(postID string) (int, error) {
	resp, err := http.Get(baseURL + "/post/" + postID)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	var post map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return 0, err
	}
	likes, _ := post["likes"].(float64)
	return int(likes), nil
}

// ======================= smoke tests =======================

// endpointSmokeTests exercises register/login/profile with positive and
// negative cases before the concurrent run starts.
func endpointSmokeTests() error {
	username := fmt.Sprintf("smoke-%d", time.Now().UnixNano()%1000000)
	password := "SmokePwd123!"
	client := newClient()

	if err := registerUser(client, username, password); err != nil {
		return fmt.Errorf("register (new) failed: %w", err)
	}

	// Duplicate registration should be rejected (400).
	status, _, err := doPostJSON(client, baseURL+"/register", map[string]any{
		"username": username, "password": password, "fullName": "x",
		"email": username + "@example.com", "phone": "15551234567", "age": 30,
	})
	if err != nil || status != http.StatusBadRequest {
		return fmt.Errorf("register (duplicate) expected 400, got %d err=%v", status, err)
	}

	if err := loginUser(client, username, password); err != nil {
		return fmt.Errorf("login (valid) failed: %w", err)
	}

	// Login with wrong password should be rejected.
	status, _, err = doPostJSON(client, baseURL+"/login", map[string]string{
		"username": username, "password": "wrong-password",
	})
	if err != nil || status != http.StatusBadRequest {
		return fmt.Errorf("login (invalid creds) expected 400, got %d err=%v", status, err)
	}

	// Profile echoes the identity from the cookie.
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/profile", nil)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile expected 200, got %d", resp.StatusCode)
	}

	log.Println("endpoint smoke tests passed: register/login/profile basic scenarios verified")
	return nil
}

// ======================= concurrent likes + report =======================

// concurrentLikeTest logs in N users, likes one post from all of them at
// once and checks the final counter.
func concurrentLikeTest(likerCount, maxConcurrent int, outCSV, outHTML string) error {
	run := time.Now().UnixNano() % 1000000
	password := "StressPwd123!"

	// Author publishes the target post.
	author := newClient()
	authorName := fmt.Sprintf("author-%d", run)
	if err := registerUser(author, authorName, password); err != nil {
		return fmt.Errorf("author register: %w", err)
	}
	if err := loginUser(author, authorName, password); err != nil {
		return fmt.Errorf("author login: %w", err)
	}
	postID, err := createPost(author, fmt.Sprintf("stress-post-%d", run))
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	// Prepare the likers (sequential register+login, concurrent like).
	type liker struct {
		name   string
		client *http.Client
	}
	likers := make([]liker, 0, likerCount)
	for i := 0; i < likerCount; i++ {
		name := fmt.Sprintf("liker-%d-%d", run, i)
		c := newClient()
		if err := registerUser(c, name, password); err != nil {
			return fmt.Errorf("liker register: %w", err)
		}
		if err := loginUser(c, name, password); err != nil {
			return fmt.Errorf("liker login: %w", err)
		}
		likers = append(likers, liker{name: name, client: c})
	}

	jobs := make(chan liker, len(likers))
	results := make(chan likeResult, len(likers))

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for l := range jobs {
			status, err := likePost(l.client, postID)
			res := likeResult{User: l.name, StatusCode: status, Timestamp: time.Now()}
			if err != nil {
				res.ErrMessage = err.Error()
			}
			results <- res
		}
	}

	workers := maxConcurrent
	if workers < 1 {
		workers = 10
	}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}
	for _, l := range likers {
		jobs <- l
	}
	close(jobs)
	wg.Wait()
	close(results)

	var allResults []likeResult
	succeeded := 0
	for r := range results {
		if r.StatusCode == 200 && r.ErrMessage == "" {
			succeeded++
		}
		allResults = append(allResults, r)
	}

	likes, err := fetchLikes(postID)
	if err != nil {
		return fmt.Errorf("fetch likes: %w", err)
	}
	log.Printf("concurrent likes: %d attempts, %d succeeded, counter=%d\n", likerCount, succeeded, likes)
	if likes != succeeded {
		log.Printf("MISMATCH: like counter %d != successful likes %d (lost update?)\n", likes, succeeded)
	}

	if err := writeCSVReport(outCSV, allResults); err != nil {
		return err
	}
	if err := writeHTMLReport(outHTML, allResults, likes, succeeded); err != nil {
		log.Printf("write HTML report error: %v", err)
	}
	return nil
}

func writeCSVReport(path string, results []likeResult) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()
	_ = csvWriter.Write([]string{"User", "StatusCode", "ErrMessage", "Timestamp"})
	for _, r := range results {
		_ = csvWriter.Write([]string{r.User, fmt.Sprintf("%d", r.StatusCode), r.ErrMessage, r.Timestamp.Format(time.RFC3339)})
	}
	return nil
}

// writeHTMLReport renders a basic table so failures are easy to eyeball.
func writeHTMLReport(path string, results []likeResult, likes, succeeded int) error {
	const tpl = `
<!doctype html>
<html>
<head><meta charset="utf-8"><title>Like Stress Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align:left }
th { background: #f4f4f4; }
.success { color: green; }
.fail { color: red; }
</style>
</head>
<body>
<h2>Like Stress Report ({{ .GeneratedAt }})</h2>
<p>Final counter: {{ .Likes }} · Successful likes: {{ .Succeeded }}</p>
<table>
<thead><tr><th>User</th><th>Status</th><th>Error</th><th>Timestamp</th></tr></thead>
<tbody>
{{ range .Rows }}
<tr>
<td>{{ .User }}</td>
<td>{{ .StatusCode }}</td>
<td>{{ .ErrMessage }}</td>
<td>{{ .Timestamp }}</td>
</tr>
{{ end }}
</tbody>
</table>
</body>
</html>`

	data := struct {
		GeneratedAt string
		Likes       int
		Succeeded   int
		Rows        []likeResult
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Likes:       likes,
		Succeeded:   succeeded,
		Rows:        results,
	}

	t, err := template.New("report").Parse(tpl)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}

// ======================= main =======================

func main() {
	likerCount := 20
	maxConcurrent := 10
	outCSV := "like_report.csv"
	outHTML := "like_report.html"

	if err := endpointSmokeTests(); err != nil {
		log.Fatalf("endpoint smoke tests failed: %v", err)
	}

	start := time.Now()
	if err := concurrentLikeTest(likerCount, maxConcurrent, outCSV, outHTML); err != nil {
		log.Fatalf("concurrent test failed: %v", err)
	}
	log.Printf("concurrent test finished in %s, CSV=%s HTML=%s\n", time.Since(start), outCSV, outHTML)
	fmt.Println("All stress tests completed successfully!")
}
