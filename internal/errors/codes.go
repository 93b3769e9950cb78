package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 클라이언트는 message 대신 이 코드로 분기함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"   // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"  // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"  // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"   // 접근 권한 없음
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"  // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired     = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"       // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"  // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"        // 충돌

	// ==================== 번들 (BUNDLE_) ====================
	BundleNotFound          = "BUNDLE_NOT_FOUND"           // 번들 없음 (삭제 포함)
	BundleInactive          = "BUNDLE_INACTIVE"            // 비활성 번들
	BundleVariantMissing    = "BUNDLE_VARIANT_MISSING"     // 대표 variant 미연결
	BundleInvalidSelections = "BUNDLE_INVALID_SELECTIONS"  // 슬롯 선택 규칙 위반

	// ==================== 재고 (INVENTORY_) ====================
	InventoryInsufficient = "INVENTORY_INSUFFICIENT"  // 재고 부족

	// ==================== 장바구니 (CART_) ====================
	CartNotFound     = "CART_NOT_FOUND"      // 장바구니 없음
	CartUpdateFailed = "CART_UPDATE_FAILED"  // 장바구니 반영 실패

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"  // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"             // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"    // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"  // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"    // 외부 서비스 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"    // 설정 오류
)
