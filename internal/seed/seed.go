package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/utils"
)

var postingHeaders = []string{"公司", "岗位", "类型", "地点", "工作日", "开始时间", "结束时间", "周期", "时薪"}

// ReadPostings 读取招聘信息 CSV，工作日之间用空格分隔，时薪以分为单位
func ReadPostings(r io.Reader, weekdays scheduler.WeekdayTable) ([]*domain.JobPosting, error) {
	reader := csv.NewReader(r)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	for _, header := range postingHeaders {
		if !slices.Contains(headers, header) {
			return nil, fmt.Errorf("没有找到列 %q", header)
		}
	}

	var postings []*domain.JobPosting
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		line++

		record := make(map[string]string)
		for i, value := range row {
			record[headers[i]] = strings.TrimSpace(value)
		}

		wage, err := strconv.ParseInt(record["时薪"], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行的时薪无效: %w", line, err)
		}

		posting := &domain.JobPosting{
			Weekdays:         strings.Fields(record["工作日"]),
			StartTime:        record["开始时间"],
			EndTime:          record["结束时间"],
			DurationCategory: domain.DurationCategory(record["周期"]),
			Position:         record["岗位"],
			JobType:          record["类型"],
			Location:         record["地点"],
			CompanyName:      record["公司"],
			HourlyWage:       wage,
		}
		if err := utils.ValidateJobPosting(posting, weekdays); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}

		postings = append(postings, posting)
	}

	return postings, nil
}

// SeedFromCSV 按公司创建管理者，为每个招聘信息创建若干员工和已录用的申请
func SeedFromCSV(r *repository.Repository, cfg *config.Config, path string) {
	file, err := os.Open(path)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	postings, err := ReadPostings(file, scheduler.DefaultWeekdayTable)
	if err != nil {
		slog.Error("读取招聘信息失败", "error", err)
		return
	}

	employers := make(map[string]*domain.User)
	applications := 0
	for _, posting := range postings {
		employer, ok := employers[posting.CompanyName]
		if !ok {
			employer = utils.GenerateRandomUser(domain.RoleManager, cfg.Email.UserDomain)
			if err := r.CreateUser(employer); err != nil {
				slog.Error("插入管理者失败", "company", posting.CompanyName, "error", err)
				continue
			}
			employers[posting.CompanyName] = employer
		}

		posting.EmployerID = employer.ID
		n, err := seedPosting(r, cfg, posting)
		if err != nil {
			slog.Error("插入招聘信息失败", "company", posting.CompanyName, "error", err)
			continue
		}
		applications += n
	}

	slog.Info("插入数据完成", "employers", len(employers), "postings", len(postings), "applications", applications)
}

// SeedRandom 随机生成 cfg.Seed.Employers 个管理者，每人一个招聘信息
func SeedRandom(r *repository.Repository, cfg *config.Config) {
	applications := 0
	for i := 0; i < cfg.Seed.Employers; i++ {
		employer := utils.GenerateRandomUser(domain.RoleManager, cfg.Email.UserDomain)
		if err := r.CreateUser(employer); err != nil {
			slog.Error("插入管理者失败", "error", err)
			continue
		}

		posting := utils.GenerateRandomJobPosting(employer.ID, utils.GenerateRandomCompanyName())
		n, err := seedPosting(r, cfg, posting)
		if err != nil {
			slog.Error("插入招聘信息失败", "error", err)
			continue
		}
		applications += n
	}

	slog.Info("插入随机数据完成", "applications", applications)
}

func seedPosting(r *repository.Repository, cfg *config.Config, posting *domain.JobPosting) (int, error) {
	if err := r.CreateJobPosting(posting); err != nil {
		return 0, err
	}

	cnt := 0
	for i := 0; i < cfg.Seed.WorkersPerJob; i++ {
		worker := utils.GenerateRandomUser(domain.RoleWorker, cfg.Email.UserDomain)
		if err := r.CreateUser(worker); err != nil {
			slog.Error("插入员工失败", "error", err)
			continue
		}

		app := &domain.Application{
			WorkerID:     worker.ID,
			EmployerID:   posting.EmployerID,
			JobPostingID: posting.ID,
			Status:       domain.ApplicationStatusAccepted,
		}
		if err := r.CreateApplication(app); err != nil {
			slog.Error("插入申请失败", "error", err)
			continue
		}
		cnt++
	}

	return cnt, nil
}
