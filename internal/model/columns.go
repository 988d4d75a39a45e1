package model

// Residency ledger headers. They are matched exactly.
const (
	ColResidentID         = "住民コード_conv"
	ColSequenceNo         = "異動ＳＥＱ"
	ColEventDate          = "最新異動日"
	ColEventReason        = "最新異動事由コード名"
	ColExitDate           = "減異動日"
	ColDeathDate          = "死亡日"
	ColBecameResidentDate = "住民となった異動日"
	ColLocality           = "自治会コード名"
	ColSchoolZoneName     = "小学校区コード名"
	ColBirthYear          = "生年月日_year"
)

// Certification ledger headers.
const (
	ColApplicationDate = "要介護認定申請日"
	ColDecisionDate    = "要介護認定日"
	ColValidMonths     = "認定有効期間"
	ColCareLevel       = "二次判定要介護度"
	ColCareLevelName   = "二次判定要介護度名"
)

// Derived output headers.
const (
	ColPeriodStart = "認定開始日"
	ColPeriodEnd   = "認定終了日"
	ColStatus      = "認定状態"
)

// Default status labels, as consumed by the rate reports.
const (
	LabelCertified    = "認定済み"
	LabelNotCertified = "未認定"
	LabelExcluded     = "対象外"
)

// DefaultExcludedReasons lists event reasons that never count as a present
// resident: pending transfer-in notice, administrative deletions, transfer-out,
// emigration and a blank reason.
var DefaultExcludedReasons = []string{
	"転入通知未着",
	"職権消除",
	"職権記載消除",
	"職権消除（実態調査）",
	"転出",
	"国外転出",
	"",
}

// DefaultDroppedColumns are internal certification fields removed from output:
// first-pass assessment and rescission bookkeeping.
var DefaultDroppedColumns = []string{
	"一次判定日",
	"一次判定要介護度",
	"一次判定要介護度名",
	"取消日",
	"取消事由コード",
	"取消事由コード名",
}
