package dashboard

import (
	"os"
	"strings"
)

const (
	// DefaultEChartsAssetsHost is the public go-echarts assets bucket.
	DefaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	// envEChartsCDN overrides the default assets host (e.g., to point at a self-hosted bucket).
	envEChartsCDN = "LEADS_DASHBOARD_ECHARTS_CDN"
)

// EChartsAssetsHost returns the assets host, respecting LEADS_DASHBOARD_ECHARTS_CDN if set.
func EChartsAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envEChartsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return DefaultEChartsAssetsHost
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
