package reveal

import (
	"github.com/liwu-next/internal/constants"
	"github.com/liwu-next/internal/models"
)

// Stage 揭示阶段标识
type Stage string

// 揭示阶段，严格按此顺序推进，内容缺失的可选阶段被整段省略而非重排。
const (
	StageUnlock           Stage = constants.StageUnlock
	StageEntry            Stage = constants.StageEntry
	StageIntroAnimation   Stage = constants.StageIntroAnimation
	StageOpeningAnimation Stage = constants.StageOpeningAnimation
	StageEmotionalBeat    Stage = constants.StageEmotionalBeat
	StageMessageReveal    Stage = constants.StageMessageReveal
	StageLetters          Stage = constants.StageLetters
	StagePhotos           Stage = constants.StagePhotos
	StageConversation     Stage = constants.StageConversation
	StageMapConnection    Stage = constants.StageMapConnection
	StageProposal         Stage = constants.StageProposal
	StageCelebration      Stage = constants.StageCelebration
)

// AdvanceMode 阶段推进方式
type AdvanceMode int

const (
	// AdvanceConfirm 用户确认后推进
	AdvanceConfirm AdvanceMode = iota
	// AdvanceAnimation 动画完成回调后推进（固定时长，不可被用户取消）
	AdvanceAnimation
	// AdvanceTimed 定时自动推进
	AdvanceTimed
	// AdvanceStream 逐条流式展示完毕且用户确认后推进
	AdvanceStream
	// AdvanceTimedConfirm 定时展示完毕且用户确认后推进
	AdvanceTimedConfirm
	// AdvanceBinary 二选一（接受推进，拒绝原地重入）
	AdvanceBinary
	// AdvanceTerminal 终态，仅可退出
	AdvanceTerminal
)

// stageSpec 单个阶段的静态定义
type stageSpec struct {
	stage Stage
	mode  AdvanceMode
	// applies 判断该阶段是否适用于给定配置，nil 表示恒定出现
	applies func(cfg models.GiftConfig) bool
}

// stageTable 全量阶段转移表，Plan 按配置从中筛选
var stageTable = []stageSpec{
	{stage: StageUnlock, mode: AdvanceConfirm},
	{stage: StageEntry, mode: AdvanceConfirm},
	{stage: StageIntroAnimation, mode: AdvanceAnimation},
	{stage: StageOpeningAnimation, mode: AdvanceTimed},
	{stage: StageEmotionalBeat, mode: AdvanceTimed},
	{stage: StageMessageReveal, mode: AdvanceStream},
	{stage: StageLetters, mode: AdvanceConfirm, applies: models.GiftConfig.HasLetters},
	{stage: StagePhotos, mode: AdvanceConfirm, applies: models.GiftConfig.HasPhotos},
	{stage: StageConversation, mode: AdvanceStream, applies: models.GiftConfig.HasConversation},
	{stage: StageMapConnection, mode: AdvanceTimedConfirm, applies: models.GiftConfig.HasLocations},
	{stage: StageProposal, mode: AdvanceBinary, applies: models.GiftConfig.HasProposal},
	{stage: StageCelebration, mode: AdvanceTerminal},
}

// ModeOf 返回阶段的推进方式
func ModeOf(stage Stage) AdvanceMode {
	for _, spec := range stageTable {
		if spec.stage == stage {
			return spec.mode
		}
	}
	return AdvanceConfirm
}

// Plan 按配置推导适用阶段序列
// locked 为真时首阶段为 Unlock，MessageReveal 与 Celebration 恒定出现。
func Plan(cfg models.GiftConfig, locked bool) []Stage {
	plan := make([]Stage, 0, len(stageTable))
	for _, spec := range stageTable {
		if spec.stage == StageUnlock {
			if locked {
				plan = append(plan, spec.stage)
			}
			continue
		}
		if spec.applies != nil && !spec.applies(cfg) {
			continue
		}
		plan = append(plan, spec.stage)
	}
	return plan
}

// PlanNames 返回阶段序列的字符串形式，供视图层输出
func PlanNames(cfg models.GiftConfig, locked bool) []string {
	plan := Plan(cfg, locked)
	names := make([]string, len(plan))
	for i, stage := range plan {
		names[i] = string(stage)
	}
	return names
}

// streamLines 取阶段对应的流式内容行
func streamLines(stage Stage, cfg models.GiftConfig) []string {
	switch stage {
	case StageMessageReveal:
		return cfg.MessageLines()
	case StageConversation:
		if cfg.Interaction == nil {
			return nil
		}
		return cfg.Interaction.Responses
	default:
		return nil
	}
}
