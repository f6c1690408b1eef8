package solana

import (
	"fmt"
	"net/url"
)

const mainnetCluster = "mainnet-beta"

// ExplorerURL returns the block explorer link for a transaction signature.
// A cluster suffix is only added off mainnet.
func ExplorerURL(host, signature, cluster string) string {
	link := fmt.Sprintf("https://%s/tx/%s", host, signature)
	if cluster != "" && cluster != mainnetCluster {
		link += "?cluster=" + url.QueryEscape(cluster)
	}
	return link
}
