package importer

// ProgressEvent 转换进度事件（控制台展示）
type ProgressEvent struct {
	Percent int
	Stage   string
	Message string
}

// 阶段名称
const (
	StageLoad      = "load"
	StageScan      = "scan"
	StageReshape   = "reshape"
	StageNormalize = "normalize"
	StageWrite     = "write"
	StageStore     = "store"
	StageDone      = "done"
)

func reportProgress(progress func(ProgressEvent), percent int, stage, message string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
		Message: message,
	})
}
