package database

import (
	"fmt"
	"log"
	"os"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/progression"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedFile 种子文件结构：徽章目录与公共路线模板
type SeedFile struct {
	Badges   []SeedBadge   `yaml:"badges"`
	Roadmaps []SeedRoadmap `yaml:"roadmaps"`
}

type SeedBadge struct {
	Code        string                 `yaml:"code"`
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Category    string                 `yaml:"category"`
	Tier        string                 `yaml:"tier"`
	ImageURL    string                 `yaml:"image_url"`
	Requirement model.BadgeRequirement `yaml:"requirement"`
}

type SeedRoadmap struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	SkillTag    string     `yaml:"skill_tag"`
	Weeks       []SeedWeek `yaml:"weeks"`
}

type SeedWeek struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	XPReward    int        `yaml:"xp_reward"`
	Steps       []SeedStep `yaml:"steps"`
}

type SeedStep struct {
	Title     string         `yaml:"title"`
	Resources []SeedResource `yaml:"resources"`
}

type SeedResource struct {
	Title   string `yaml:"title"`
	URL     string `yaml:"url"`
	Type    string `yaml:"type"`
	Minutes int    `yaml:"minutes"`
}

func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

// Seed 表为空时写入默认徽章与公共路线，已有数据时跳过
func Seed(db *gorm.DB, seed *SeedFile) error {
	var badgeCount int64
	if err := db.Model(&model.Badge{}).Count(&badgeCount).Error; err != nil {
		return err
	}
	if badgeCount == 0 {
		for _, b := range seed.Badges {
			if err := progression.ValidateRequirement(b.Requirement); err != nil {
				return fmt.Errorf("badge %s: %w", b.Code, err)
			}
			badge := model.Badge{
				Code:        b.Code,
				Name:        b.Name,
				Description: b.Description,
				Category:    model.BadgeCategory(b.Category),
				Tier:        model.BadgeCategory(b.Tier),
				ImageURL:    b.ImageURL,
				Requirement: datatypes.NewJSONType(b.Requirement),
			}
			if badge.Tier == "" {
				badge.Tier = model.BadgeBronze
			}
			if err := db.Create(&badge).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded %d badges", len(seed.Badges))
	}

	var roadmapCount int64
	if err := db.Model(&model.Roadmap{}).Where("is_public = ?", true).Count(&roadmapCount).Error; err != nil {
		return err
	}
	if roadmapCount == 0 {
		for _, r := range seed.Roadmaps {
			roadmap := r.toModel()
			if err := db.Create(&roadmap).Error; err != nil {
				return err
			}
		}
		log.Printf("Seeded %d public roadmaps", len(seed.Roadmaps))
	}
	return nil
}

func (r SeedRoadmap) toModel() model.Roadmap {
	roadmap := model.Roadmap{
		Title:       r.Title,
		Description: r.Description,
		SkillTag:    progression.NormalizeSkillTag(r.SkillTag),
		TotalWeeks:  len(r.Weeks),
		CurrentWeek: 1,
		Status:      model.StatusNotStarted,
		IsPublic:    true,
	}
	for i, w := range r.Weeks {
		week := model.RoadmapWeek{
			WeekNumber:  i + 1,
			Title:       w.Title,
			Description: w.Description,
			Status:      model.StatusNotStarted,
			XPReward:    w.XPReward,
		}
		if week.XPReward <= 0 {
			week.XPReward = 50 + 50*(i+1)
		}
		for j, s := range w.Steps {
			step := model.RoadmapStep{Position: j + 1, Title: s.Title, Status: model.StatusNotStarted}
			for k, res := range s.Resources {
				rt := model.ResourceType(res.Type)
				if !rt.Valid() {
					rt = model.ResourceOther
				}
				step.Resources = append(step.Resources, model.Resource{
					Position:         k + 1,
					Title:            res.Title,
					URL:              res.URL,
					Type:             rt,
					EstimatedMinutes: res.Minutes,
				})
			}
			week.Steps = append(week.Steps, step)
		}
		roadmap.Weeks = append(roadmap.Weeks, week)
	}
	if roadmap.TotalWeeks == 0 {
		roadmap.TotalWeeks = 1
	}
	return roadmap
}
