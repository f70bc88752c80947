package contextkeys

// Keys used with gin.Context.Set / Get.
const (
	UserKey      = "user"
	UserIDKey    = "userID"
	UserRoleKey  = "userRole"
	RequestIDKey = "requestID"
)
