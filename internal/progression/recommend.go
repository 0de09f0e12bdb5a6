package progression

import (
	"sort"

	"skillkart_backend/internal/model"
)

const (
	DefaultRecommendationLimit = 4

	MatchScoreFull = 100
	MatchScoreNone = 0
)

// Recommendation 推荐结果
type Recommendation struct {
	Roadmap    model.Roadmap `json:"roadmap"`
	MatchScore int           `json:"match_score"`
}

// ScoreFunc 计算兴趣集合与路线之间的匹配度
type ScoreFunc func(interests map[string]struct{}, roadmap model.Roadmap) int

// BinaryMatch 技能标签属于兴趣集合得 100 分，否则 0 分
func BinaryMatch(interests map[string]struct{}, roadmap model.Roadmap) int {
	if _, ok := interests[NormalizeSkillTag(roadmap.SkillTag)]; ok {
		return MatchScoreFull
	}
	return MatchScoreNone
}

// Rank 按兴趣对路线目录排序并截取前 limit 条。
// 同分保持目录原有顺序；目录为空或没有兴趣时返回空切片。
func Rank(interests []string, catalog []model.Roadmap, limit int) []Recommendation {
	return RankWith(BinaryMatch, interests, catalog, limit)
}

// RankWith 使用自定义打分函数排序
func RankWith(score ScoreFunc, interests []string, catalog []model.Roadmap, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	set := make(map[string]struct{}, len(interests))
	for _, tag := range NormalizeInterests(interests) {
		set[tag] = struct{}{}
	}
	if len(set) == 0 || len(catalog) == 0 {
		return []Recommendation{}
	}

	ranked := make([]Recommendation, 0, len(catalog))
	for _, r := range catalog {
		ranked = append(ranked, Recommendation{Roadmap: r, MatchScore: score(set, r)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
