package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrUserExists     = 10001
	ErrUserNotFound   = 10002
	ErrAuthFailed     = 10003
	ErrSessionInvalid = 10004
	ErrNoPermission   = 10005
	ErrSelfFollow     = 10006

	// 帖子模块错误 200xx
	ErrPostNotFound    = 20001
	ErrSlugExists      = 20002
	ErrPostNotApproved = 20003
	ErrCommentNotFound = 20004
	ErrInvalidReaction = 20005

	// 私信模块错误 300xx
	ErrMessageNotFound = 30001
	ErrNotSender       = 30002

	// 通知模块错误 400xx
	ErrNotificationNotFound = 40001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrNotFound        = 50004
	ErrUploadFailed    = 50005
)
