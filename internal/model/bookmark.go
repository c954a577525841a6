package model

import "time"

// Bookmark はユーザーが保存した求人のローカル永続化スナップショットを表す。
// ブックマーク時点のJobの非正規化コピーであり、リモート側のJobが
// 後から変化しても追従しない。job_idごとに最大1件のみ存在する。
type Bookmark struct {
	JobID       string
	Title       string
	Location    string
	SalaryMin   int
	SalaryMax   int
	Phone       string
	JobType     string
	CompanyName string
	Description string

	// CreatedAt は最初にブックマークされた日時。ストアが挿入時に付与し、
	// 同一job_idへの再ブックマーク（置換）では変更されない。
	CreatedAt time.Time
}

// NewBookmarkFromJob はJobからブックマークのスナップショットを作成する。
// CreatedAtは設定しない（ストアが挿入時に付与する）。
func NewBookmarkFromJob(job *Job) *Bookmark {
	return &Bookmark{
		JobID:       job.ID,
		Title:       job.Title,
		Location:    job.Location,
		SalaryMin:   job.SalaryMin,
		SalaryMax:   job.SalaryMax,
		Phone:       job.ContactPhone(),
		JobType:     job.JobType,
		CompanyName: job.CompanyName,
		Description: job.Description,
	}
}
