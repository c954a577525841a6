// Package feedapi はリモート求人フィードAPIのクライアントを提供する。
//
// フィードは1ページ単位の読み取り専用エンドポイント
// GET <base>/jobs?page=<n> のみを持ち、レスポンスは
// {"results": [...]} 形式のJSON。クライアントはステートレスで、
// 1回の呼び出しにつきHTTPリクエストは正確に1回だけ発行する。
// リトライは意図的に行わない（失敗は即座に呼び出し元へ伝播し、
// 再試行はユーザーの引き下げ更新に委ねる）。
package feedapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/thumuvivek2003/getLokalApp/internal/metrics"
	"github.com/thumuvivek2003/getLokalApp/internal/model"
	"github.com/thumuvivek2003/getLokalApp/internal/security"
)

// defaultMaxBodySize はレスポンスボディの最大読み取りサイズ（5MB）。
const defaultMaxBodySize = 5 * 1024 * 1024

// Page は1回のフェッチで取得したフィードページを表す。
type Page struct {
	Number int
	Jobs   []model.Job
}

// Client は求人フィードAPIのクライアント。
type Client struct {
	httpClient  *http.Client
	baseURL     string
	sanitizer   security.ContentSanitizerService
	metrics     metrics.Recorder
	logger      *slog.Logger
	maxBodySize int64
}

// NewClient はClientの新しいインスタンスを生成する。
// maxBodySizeに0以下を指定するとデフォルト（5MB）を使用する。
func NewClient(
	httpClient *http.Client,
	baseURL string,
	sanitizer security.ContentSanitizerService,
	rec metrics.Recorder,
	logger *slog.Logger,
	maxBodySize int64,
) *Client {
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		sanitizer:   sanitizer,
		metrics:     rec,
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// --- ワイヤ型 ---
// リモートレスポンスはダックタイピング的な構造のため、ここで一度だけ
// 明示的な型に受けてからmodel.Jobへマッピングする。欠損フィールドの
// デフォルト補完はこの境界で完結させ、以降のレイヤにはゼロ値の揺れを持ち込まない。

type pageResponse struct {
	Results []jobResponse `json:"results"`
}

type jobResponse struct {
	// IDは数値で返る場合と文字列で返る場合があるためjson.Numberで受ける
	ID                json.Number        `json:"id"`
	Title             string             `json:"title"`
	CompanyName       string             `json:"company_name"`
	PrimaryDetails    *primaryDetails    `json:"primary_details"`
	SalaryMin         int                `json:"salary_min"`
	SalaryMax         int                `json:"salary_max"`
	WhatsappNo        string             `json:"whatsapp_no"`
	ContactPreference *contactPreference `json:"contact_preference"`
	JobCategory       string             `json:"job_category"`
	JobTags           []jobTag           `json:"job_tags"`
	OtherDetails      string             `json:"other_details"`
	NumApplications   int                `json:"num_applications"`
	Views             int                `json:"views"`
	OpeningsCount     int                `json:"openings_count"`
	IsPremium         bool               `json:"is_premium"`
	UpdatedOn         string             `json:"updated_on"`
}

type primaryDetails struct {
	Place         string `json:"Place"`
	Salary        string `json:"Salary"`
	JobType       string `json:"Job_Type"`
	Experience    string `json:"Experience"`
	Qualification string `json:"Qualification"`
}

type contactPreference struct {
	WhatsappLink string `json:"whatsapp_link"`
}

type jobTag struct {
	Value string `json:"value"`
}

// FetchPage は指定ページの求人一覧を取得する。
// pageに1未満を指定した場合は1ページ目を取得する。
// 通信失敗・非成功ステータスはNETWORK_ERROR、
// レスポンスの解析失敗はDECODE_ERRORとして返す。
func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	reqURL, err := url.Parse(c.baseURL + "/jobs")
	if err != nil {
		return nil, fmt.Errorf("フィードURLの構築に失敗しました: %w", err)
	}
	q := reqURL.Query()
	q.Set("page", strconv.Itoa(page))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "GetLokalApp/1.0 Job Browser")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordFetchLatency(time.Since(start))
	if err != nil {
		c.logger.Error("求人フィードの呼び出しに失敗しました",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		c.metrics.RecordFetchFailure(page, "transport")
		return nil, model.NewNetworkError(err.Error())
	}
	defer resp.Body.Close()

	c.metrics.RecordHTTPStatus(resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("求人フィードがエラーステータスを返しました",
			slog.Int("page", page),
			slog.Int("http_status", resp.StatusCode),
		)
		c.metrics.RecordFetchFailure(page, "http_status")
		return nil, model.NewNetworkError(fmt.Sprintf("ステータス %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		c.logger.Error("レスポンスボディの読み取りに失敗しました",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		c.metrics.RecordFetchFailure(page, "read_body")
		return nil, model.NewNetworkError(err.Error())
	}

	var decoded pageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Error("求人フィードレスポンスの解析に失敗しました",
			slog.Int("page", page),
			slog.String("error", err.Error()),
		)
		c.metrics.RecordDecodeFailure(page)
		return nil, model.NewDecodeError()
	}

	jobs := make([]model.Job, 0, len(decoded.Results))
	for _, jr := range decoded.Results {
		jobs = append(jobs, c.toJob(jr))
	}

	c.metrics.RecordFetchSuccess(page)
	c.metrics.RecordJobsFetched(len(jobs))

	return &Page{Number: page, Jobs: jobs}, nil
}

// toJob はワイヤ型をドメインモデルへマッピングする。
// 欠損フィールドはゼロ値に補完し、自由記述はサニタイズする。
func (c *Client) toJob(jr jobResponse) model.Job {
	job := model.Job{
		ID:               jr.ID.String(),
		Title:            jr.Title,
		CompanyName:      jr.CompanyName,
		SalaryMin:        jr.SalaryMin,
		SalaryMax:        jr.SalaryMax,
		Phone:            jr.WhatsappNo,
		Category:         jr.JobCategory,
		Description:      c.sanitizer.Sanitize(jr.OtherDetails),
		ApplicationCount: jr.NumApplications,
		ViewCount:        jr.Views,
		OpeningsCount:    jr.OpeningsCount,
		IsPremium:        jr.IsPremium,
	}

	if jr.PrimaryDetails != nil {
		job.Location = jr.PrimaryDetails.Place
		job.JobType = jr.PrimaryDetails.JobType
		job.Experience = jr.PrimaryDetails.Experience
		job.Qualification = jr.PrimaryDetails.Qualification
	}

	if jr.ContactPreference != nil {
		job.WhatsappLink = jr.ContactPreference.WhatsappLink
	}

	if len(jr.JobTags) > 0 {
		tags := make([]string, 0, len(jr.JobTags))
		for _, tag := range jr.JobTags {
			if tag.Value != "" {
				tags = append(tags, tag.Value)
			}
		}
		job.Tags = tags
	}

	if jr.UpdatedOn != "" {
		if ts, ok := parseFeedTime(jr.UpdatedOn); ok {
			job.UpdatedOn = &ts
		}
	}

	return job
}

// parseFeedTime はフィードの日時文字列を解釈する。
// タイムゾーン付きISO 8601とタイムゾーンなしの両方の形式を試す。
func parseFeedTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
