package gamecopy

type CreateCopyReq struct {
	Condition *string `json:"condition"`
}

type UpdateCopyReq struct {
	Code      *string `json:"code"`
	Condition *string `json:"condition"`
	Available *bool   `json:"available"`
}
