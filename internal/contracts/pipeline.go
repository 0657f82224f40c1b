package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 리포트, 메트릭 라벨에서 이 상수를 사용해야 함
//
// 파이프라인 흐름 (securities):
//   S0 → S1 → S2 → S3 → S4 → S5 → S6 → S7
//   Ingest  Normalize  Derive  Dedup  Segment  Impute  Window  Export
//
// CDS 변형은 S3, S4, S5를 건너뛰고 CDS reshape 단계를 사용한다.

// Stage represents a pipeline stage
type Stage string

const (
	// StageIngest S0: CSV / XLSX 원본 읽기, 스키마 확인
	// 위치: internal/s0_ingest/
	StageIngest Stage = "S0_INGEST"

	// StageNormalize S1: NULL sentinel, 타입 변환, divisor, coupon override, row filter
	// 위치: internal/s1_normalize/
	StageNormalize Stage = "S1_NORMALIZE"

	// StageDerive S2: current yield, modified duration
	// 위치: internal/s2_derive/
	StageDerive Stage = "S2_DERIVE"

	// StageDedup S3: (instrument, date) 중복 제거
	// 위치: internal/s3_dedup/
	StageDedup Stage = "S3_DEDUP"

	// StageSegment S4: 거래 공백 감지, instrument id 재부여
	// 위치: internal/s4_segment/
	StageSegment Stage = "S4_SEGMENT"

	// StageImpute S5: treasury 분리, 데이터 부족 종목 제거, spread 보간
	// 위치: internal/s5_impute/
	StageImpute Stage = "S5_IMPUTE"

	// StageWindow S6: trading window 계산 및 분할
	// 위치: internal/s6_window/
	StageWindow Stage = "S6_WINDOW"

	// StageExport S7: 결과 테이블 저장
	// 위치: internal/export/
	StageExport Stage = "S7_EXPORT"

	// StageCDSReshape CDS price/spread melt + join + spread duration
	// 위치: internal/cds/
	StageCDSReshape Stage = "CDS_RESHAPE"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageIngest:
		return "S0"
	case StageNormalize:
		return "S1"
	case StageDerive:
		return "S2"
	case StageDedup:
		return "S3"
	case StageSegment:
		return "S4"
	case StageImpute:
		return "S5"
	case StageWindow:
		return "S6"
	case StageExport:
		return "S7"
	case StageCDSReshape:
		return "CDS"
	default:
		return "UNKNOWN"
	}
}

// SecurityStages returns the security-dataset stages in order
func SecurityStages() []Stage {
	return []Stage{
		StageIngest,
		StageNormalize,
		StageDerive,
		StageDedup,
		StageSegment,
		StageImpute,
		StageWindow,
		StageExport,
	}
}

// CDSStages returns the CDS-dataset stages in order
func CDSStages() []Stage {
	return []Stage{
		StageIngest,
		StageNormalize,
		StageCDSReshape,
		StageWindow,
		StageExport,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range append(SecurityStages(), StageCDSReshape) {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage       Stage                  `json:"stage"`
	Success     bool                   `json:"success"`
	InputCount  int                    `json:"input_count"`
	OutputCount int                    `json:"output_count"`
	Duration    int64                  `json:"duration_ms"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Dropped returns how many records the stage removed
func (r PipelineResult) Dropped() int {
	if r.InputCount < r.OutputCount {
		return 0
	}
	return r.InputCount - r.OutputCount
}
