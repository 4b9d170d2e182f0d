package sdk

// Version is the published SDK version.
// 0.3.0: Add account settings, model performance/compare and credit adjustment endpoints.
// 0.2.0: Breaking - Partial updates use Optional[T]; unset fields are no longer sent.
const Version = "0.3.0"

const defaultUserAgent = "lumino-go-sdk/" + Version
