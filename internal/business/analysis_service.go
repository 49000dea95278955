package business

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"labliq/analyzer/internal/model"
	"labliq/analyzer/internal/rating"
	"labliq/analyzer/internal/refdata"
	"labliq/analyzer/pkg/errorutil"
	"labliq/analyzer/pkg/infra/mysql"
	"labliq/analyzer/pkg/infra/redis"
	"labliq/analyzer/pkg/lmstfy"
	"labliq/analyzer/pkg/logger"
)

// AnalysisService 费率分析服务
// 职责：执行批量费率计算 → 持久化分析结果 → 发送完成通知与回调。
// analysisDAO / pubsub / lmstfyClient 允许为 nil（脱机工具与同步预览模式），
// 为 nil 时跳过对应的副作用。
type AnalysisService struct {
	calculator     *rating.Calculator
	store          *refdata.Store
	anomalyChecker *AnomalyChecker
	analysisDAO    *mysql.AnalysisDAO
	pubsub         *redis.PubSub
	lmstfyClient   *lmstfy.Client
	jobQueue       string // 分析任务队列（Submit 投递用）
	callbackQueue  string // 回调队列（worker 结果投递用）
	notifyChannel  string // Redis 完成通知频道
	log            logger.Logger
}

// AnalysisServiceOptions 服务依赖与队列配置
type AnalysisServiceOptions struct {
	AnalysisDAO   *mysql.AnalysisDAO
	PubSub        *redis.PubSub
	LmstfyClient  *lmstfy.Client
	JobQueue      string
	CallbackQueue string
	NotifyChannel string
}

// NewAnalysisService 创建费率分析服务实例
func NewAnalysisService(store *refdata.Store, opts AnalysisServiceOptions, log logger.Logger) *AnalysisService {
	return &AnalysisService{
		calculator:     rating.NewCalculator(store.Matrix(), store.Rates(), store.Classifier(), log),
		store:          store,
		anomalyChecker: NewAnomalyChecker(),
		analysisDAO:    opts.AnalysisDAO,
		pubsub:         opts.PubSub,
		lmstfyClient:   opts.LmstfyClient,
		jobQueue:       opts.JobQueue,
		callbackQueue:  opts.CallbackQueue,
		notifyChannel:  opts.NotifyChannel,
		log:            log,
	}
}

// AnalysisInput 分析执行输入（所有数据从 payload 传入，不回查 DB）
type AnalysisInput struct {
	RequestID  string
	AnalysisID string
	Shipments  []rating.Shipment
	Overrides  *rating.Overrides
}

// PreviewOutput 同步预览输出
type PreviewOutput struct {
	Results  []rating.RateResult `json:"results"`
	Summary  rating.BatchSummary `json:"summary"`
	Warnings []model.AnomalyItem `json:"warnings,omitempty"`
}

// Preview 同步执行批量计算（不持久化、不发通知）
func (s *AnalysisService) Preview(ctx context.Context, shipments []rating.Shipment, overrides *rating.Overrides) (*PreviewOutput, error) {
	anomaly, err := s.anomalyChecker.Check(ctx, shipments)
	if err != nil {
		return nil, fmt.Errorf("anomaly check failed: %w", err)
	}

	crit := s.store.Criteria().Merge(overrides)
	results := s.calculator.CalculateRates(ctx, shipments, crit)
	summary := s.calculator.Summary(results)

	return &PreviewOutput{
		Results:  results,
		Summary:  summary,
		Warnings: anomaly.Issues,
	}, nil
}

// Submit 创建异步分析任务
// 写入 PENDING 记录并投递任务消息，返回分析 ID
func (s *AnalysisService) Submit(ctx context.Context, requestID string, shipments []rating.Shipment, overrides *rating.Overrides) (string, error) {
	if s.analysisDAO == nil || s.lmstfyClient == nil {
		return "", fmt.Errorf("submit requires database and queue")
	}

	analysisID := uuid.New().String()
	if requestID == "" {
		requestID = uuid.New().String()
	}

	// 1. 创建 PENDING 记录
	if _, err := s.analysisDAO.Create(ctx, analysisID, requestID, shipments); err != nil {
		return "", fmt.Errorf("failed to create analysis record: %w", err)
	}

	// 2. 构造标准任务消息
	jobMsg := model.RateAnalysisJob{
		Payload: model.RateAnalysisPayload{
			Data: model.RateAnalysisData{
				RequestID:  requestID,
				OrgID:      "0",
				ActionType: model.ActionTypeRateAnalysis,
				ID:         analysisID,
				Data: model.RateAnalysisBusinessData{
					AnalysisID: analysisID,
					Shipments:  shipments,
					Overrides:  overrides,
				},
			},
		},
	}

	jobJSON, err := json.Marshal(jobMsg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	// 3. 投递到分析队列
	// ttl=0 表示永不过期, delay=0 表示立即可用
	if err := s.lmstfyClient.Publish(s.jobQueue, jobJSON, 0, 0); err != nil {
		// 投递失败时把记录置为 FAILED，避免永远停在 PENDING
		_ = s.analysisDAO.UpdateResult(ctx, analysisID, nil, nil, model.AnalysisStatusFailed, "failed to enqueue analysis job")
		return "", fmt.Errorf("failed to publish job: %w", err)
	}

	s.log.Infof(ctx, "[AnalysisService] Submitted analysis %s with %d shipments", analysisID, len(shipments))
	return analysisID, nil
}

// ExecuteAnalysis 执行分析并发送回调（worker 侧）
// 返回 error 表示整个流程失败（持久化失败或回调发送失败）；
// 单行计算失败不会让流程失败，失败行在结果中以 Error 区域标记
func (s *AnalysisService) ExecuteAnalysis(ctx context.Context, input *AnalysisInput) error {
	// 1. 标记处理中
	if s.analysisDAO != nil {
		if err := s.analysisDAO.MarkProcessing(ctx, input.AnalysisID); err != nil {
			s.log.Warnf(ctx, "[AnalysisService] MarkProcessing failed: %v", err)
		}
	}

	// 2. 输入数据质量扫描（只告警，不阻断）
	anomaly, err := s.anomalyChecker.Check(ctx, input.Shipments)
	if err != nil {
		return s.fail(ctx, input, fmt.Errorf("anomaly check failed: %w", err))
	}

	// 3. 批量计算（整批不可中断，逐行错误隔离）
	crit := s.store.Criteria().Merge(input.Overrides)
	results := s.calculator.CalculateRates(ctx, input.Shipments, crit)
	summary := s.calculator.Summary(results)

	// 4. 持久化终态
	if s.analysisDAO != nil {
		if err := s.analysisDAO.UpdateResult(ctx, input.AnalysisID, results, &summary, model.AnalysisStatusCompleted, ""); err != nil {
			// 持久化失败多为数据库抖动，标记可重试让消息延迟重投
			return errorutil.RetriableWithDetails("failed to persist analysis results", err.Error())
		}
	}

	// 5. Redis 完成通知
	s.notify(ctx, input, model.AnalysisStatusCompleted)

	// 6. 回调消息
	warnings := make([]string, 0, len(anomaly.Issues))
	for _, issue := range anomaly.Issues {
		warnings = append(warnings, issue.Message)
	}

	callback := model.RateAnalysisCallback{
		RequestID:   input.RequestID,
		AnalysisID:  input.AnalysisID,
		Status:      model.CallbackStatusSuccess,
		Results:     results,
		Summary:     &summary,
		Warnings:    warnings,
		ProcessedAt: time.Now().Unix(),
	}

	// 回调投递失败同样可重试；重算是幂等的，终态会被原样覆盖
	if err := s.sendCallback(ctx, &callback); err != nil {
		return errorutil.RetriableWithDetails("failed to send completion callback", err.Error())
	}
	return nil
}

// fail 失败收尾：记录终态、发通知、发失败回调
func (s *AnalysisService) fail(ctx context.Context, input *AnalysisInput, cause error) error {
	s.log.Errorf(ctx, "[AnalysisService] Analysis %s failed: %v", input.AnalysisID, cause)

	if s.analysisDAO != nil {
		if err := s.analysisDAO.UpdateResult(ctx, input.AnalysisID, nil, nil, model.AnalysisStatusFailed, cause.Error()); err != nil {
			s.log.Errorf(ctx, "[AnalysisService] Failed to persist failure state: %v", err)
		}
	}

	s.notify(ctx, input, model.AnalysisStatusFailed)

	callback := model.RateAnalysisCallback{
		RequestID:   input.RequestID,
		AnalysisID:  input.AnalysisID,
		Status:      model.CallbackStatusFailed,
		Error:       cause.Error(),
		ProcessedAt: time.Now().Unix(),
	}
	if err := s.sendCallback(ctx, &callback); err != nil {
		s.log.Errorf(ctx, "[AnalysisService] Failed to send failure callback: %v", err)
	}

	return cause
}

// notify 发布 Redis 完成通知（尽力而为，失败只记日志）
func (s *AnalysisService) notify(ctx context.Context, input *AnalysisInput, status string) {
	if s.pubsub == nil {
		return
	}

	notification := &redis.AnalysisNotification{
		AnalysisID: input.AnalysisID,
		RequestID:  input.RequestID,
		Status:     status,
		Timestamp:  time.Now().Unix(),
	}
	if err := s.pubsub.PublishAnalysisComplete(ctx, s.notifyChannel, notification); err != nil {
		s.log.Warnf(ctx, "[AnalysisService] Failed to publish notification: %v", err)
	}
}

// sendCallback 发送回调到 callback 队列
func (s *AnalysisService) sendCallback(ctx context.Context, callback *model.RateAnalysisCallback) error {
	if s.lmstfyClient == nil || s.callbackQueue == "" {
		return nil
	}

	callbackJSON, err := json.Marshal(callback)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	// ttl=0 表示永不过期, delay=0 表示立即可用
	if err := s.lmstfyClient.Publish(s.callbackQueue, callbackJSON, 0, 0); err != nil {
		return fmt.Errorf("failed to publish callback: %w", err)
	}

	return nil
}
