package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reward-engine/logger"
	"reward-engine/service"
)

const (
	ResponseCodeOk          = 200
	ResponseCodeParamsError = 50001
	ResponseCodeOpError     = 50002
)

type Response struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg"`
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

func paramsError(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, &Response{
		Code: ResponseCodeParamsError,
		Msg:  msg,
		Data: "",
	})
}

func opError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, &Response{
		Code: ResponseCodeOpError,
		Msg:  err.Error(),
		Data: "",
	})
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Code: ResponseCodeOk,
		Data: data,
	})
}

type StreamResp struct {
	Token            string `json:"token"`
	Rate             string `json:"rate"`
	AccPerUnit       string `json:"acc_per_unit"`
	PeriodEnd        int64  `json:"period_end"`
	TotalDistributed string `json:"total_distributed"`
	Active           bool   `json:"active"`
}

func StreamListEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := []*StreamResp{}
		for _, stream := range s.GetStreams() {
			result = append(result, &StreamResp{
				Token:            stream.Token,
				Rate:             stream.Rate.String(),
				AccPerUnit:       stream.AccPerUnit.String(),
				PeriodEnd:        stream.PeriodEnd,
				TotalDistributed: stream.TotalDistributed.String(),
				Active:           stream.Active,
			})
		}
		ok(c, result)
	}
}

type PositionResp struct {
	Index      int    `json:"index"`
	Amount     string `json:"amount"`
	StartTime  int64  `json:"start_time"`
	UnlockTime int64  `json:"unlock_time"`
	Multiplier string `json:"multiplier"`
}

// Indices are only valid until the account's next withdrawal; clients must
// re-fetch after mutating.
func PositionListEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, exist := c.GetQuery("account")
		if !exist {
			paramsError(c, "account required")
			return
		}
		result := []*PositionResp{}
		for i, p := range s.GetPositions(account) {
			result = append(result, &PositionResp{
				Index:      i,
				Amount:     p.Amount.String(),
				StartTime:  p.StartTime,
				UnlockTime: p.UnlockTime,
				Multiplier: p.Multiplier.String(),
			})
		}
		ok(c, result)
	}
}

type PendingResp struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

func PendingRewardEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, exist := c.GetQuery("account")
		if !exist {
			paramsError(c, "account required")
			return
		}
		result := []*PendingResp{}
		for _, coin := range s.GetPending(account) {
			result = append(result, &PendingResp{
				Token:  coin.Denom,
				Amount: coin.Amount.String(),
			})
		}
		ok(c, result)
	}
}

type GlobalResp struct {
	TotalPrincipal string `json:"total_principal"`
	TotalWeighted  string `json:"total_weighted"`
}

func GlobalStateEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		global, err := s.GetGlobalState()
		if err != nil {
			logger.Logger.Errorf("GetGlobalState error : %s", err)
			opError(c, err)
			return
		}
		ok(c, &GlobalResp{
			TotalPrincipal: global.TotalPrincipal.String(),
			TotalWeighted:  global.TotalWeighted.String(),
		})
	}
}

type StakeHistoryResp struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Denom   string `json:"denom"`
	Action  uint8  `json:"action"` // 0: stake, 1: withdraw
	Time    int64  `json:"time"`
}

func StakeHistoryEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, exist := c.GetQuery("account")
		if !exist {
			paramsError(c, "account required")
			return
		}
		limitStr, _ := c.GetQuery("limit")
		limit, _ := strconv.Atoi(limitStr)
		offsetStr, _ := c.GetQuery("offset")
		offset, _ := strconv.Atoi(offsetStr)

		ascStr, _ := c.GetQuery("asc")
		asc := ascStr == "true"

		records, total, err := s.GetStakeHistory(account, validLimit(limit, 20, 100), validOffset(offset), asc)
		if err != nil {
			logger.Logger.Errorf("GetStakeHistory endpoint error : %s", err)
			opError(c, err)
			return
		}

		result := []*StakeHistoryResp{}
		for _, record := range records {
			result = append(result, &StakeHistoryResp{
				Account: record.Account,
				Amount:  record.Amount,
				Denom:   record.Denom,
				Action:  uint8(record.Action),
				Time:    record.Time,
			})
		}

		c.JSON(http.StatusOK, &Response{
			Code:  ResponseCodeOk,
			Data:  result,
			Total: total,
		})
	}
}

type RewardHistoryResp struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
	Time   int64  `json:"time"`
}

func RewardHistoryEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, exist := c.GetQuery("account")
		if !exist {
			paramsError(c, "account required")
			return
		}
		limitStr, _ := c.GetQuery("limit")
		limit, _ := strconv.Atoi(limitStr)
		offsetStr, _ := c.GetQuery("offset")
		offset, _ := strconv.Atoi(offsetStr)

		records, total, err := s.GetRewardHistory(account, validLimit(limit, 20, 100), validOffset(offset))
		if err != nil {
			logger.Logger.Errorf("GetRewardHistory endpoint error : %s", err)
			opError(c, err)
			return
		}

		result := []*RewardHistoryResp{}
		for _, record := range records {
			result = append(result, &RewardHistoryResp{
				Token:  record.Token,
				Amount: record.Amount,
				Time:   record.Time,
			})
		}

		c.JSON(http.StatusOK, &Response{
			Code:  ResponseCodeOk,
			Data:  result,
			Total: total,
		})
	}
}

type PrincipalHistoryResp struct {
	Amount string `json:"amount"`
	Time   int64  `json:"time"`
}

func PrincipalHistoryEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitStr, _ := c.GetQuery("limit")
		limit, _ := strconv.Atoi(limitStr)
		offsetStr, _ := c.GetQuery("offset")
		offset, _ := strconv.Atoi(offsetStr)

		records, total, err := s.GetPrincipalHistory(validLimit(limit, 20, 100), validOffset(offset))
		if err != nil {
			logger.Logger.Errorf("GetPrincipalHistory endpoint error : %s", err)
			opError(c, err)
			return
		}

		result := []*PrincipalHistoryResp{}
		for _, record := range records {
			result = append(result, &PrincipalHistoryResp{
				Amount: record.Amount,
				Time:   record.Time.Unix(),
			})
		}

		c.JSON(http.StatusOK, &Response{
			Code:  ResponseCodeOk,
			Data:  result,
			Total: total,
		})
	}
}

func StreamAPREndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exist := c.GetQuery("token")
		if !exist {
			paramsError(c, "token required")
			return
		}
		apr, err := s.GetStreamAPR(token)
		if err != nil {
			opError(c, err)
			return
		}
		ok(c, apr.String())
	}
}

type StakeReq struct {
	Account   string `json:"account"`
	Amount    string `json:"amount"`
	LockIndex int    `json:"lock_index"`
}

func StakeEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &StakeReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			paramsError(c, err.Error())
			return
		}
		if err := s.Stake(req.Account, req.Amount, req.LockIndex); err != nil {
			logger.Logger.Errorf("Stake error : %s", err)
			opError(c, err)
			return
		}
		ok(c, "")
	}
}

type WithdrawReq struct {
	Account       string `json:"account"`
	PositionIndex int    `json:"position_index"`
}

func WithdrawEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &WithdrawReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			paramsError(c, err.Error())
			return
		}
		if err := s.Withdraw(req.Account, req.PositionIndex); err != nil {
			logger.Logger.Errorf("Withdraw error : %s", err)
			opError(c, err)
			return
		}
		ok(c, "")
	}
}

type ClaimReq struct {
	Account string `json:"account"`
	Token   string `json:"token"`
}

func ClaimEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &ClaimReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			paramsError(c, err.Error())
			return
		}
		var err error
		if req.Token == "" {
			err = s.ClaimAll(req.Account)
		} else {
			err = s.Claim(req.Account, req.Token)
		}
		if err != nil {
			logger.Logger.Errorf("Claim error : %s", err)
			opError(c, err)
			return
		}
		ok(c, "")
	}
}

type StreamReq struct {
	Caller string `json:"caller"`
	Token  string `json:"token"`
}

func AddStreamEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &StreamReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			paramsError(c, err.Error())
			return
		}
		if err := s.AddStream(req.Caller, req.Token); err != nil {
			logger.Logger.Errorf("AddStream error : %s", err)
			opError(c, err)
			return
		}
		ok(c, "")
	}
}

func RemoveStreamEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &StreamReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			paramsError(c, err.Error())
			return
		}
		if err := s.RemoveStream(req.Caller, req.Token); err != nil {
			logger.Logger.Errorf("RemoveStream error : %s", err)
			opError(c, err)
			return
		}
		ok(c, "")
	}
}

type RewardRateReq struct {
	Caller   string `json:"caller"`
	Token    string `json:"token"`
	Reward   string `json:"reward"`
	Duration int64  `json:"duration"`
}

func RewardRateEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &RewardRateReq{}
		if err := c.ShouldBindJSON(req); err != nil {
			paramsError(c, err.Error())
			return
		}
		if err := s.SetRewardRate(req.Caller, req.Token, req.Reward, req.Duration); err != nil {
			logger.Logger.Errorf("SetRewardRate error : %s", err)
			opError(c, err)
			return
		}
		ok(c, "")
	}
}

func validLimit(originLimit, defaultLimit, maxLimit int) int {
	if originLimit == 0 {
		return defaultLimit
	}
	if originLimit > maxLimit {
		return maxLimit
	}
	return originLimit
}

func validOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
