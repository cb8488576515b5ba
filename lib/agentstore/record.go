package agentstore

import (
	"fmt"
	"strings"
)

const (
	DefaultRegistryBase = "https://registry.olas.network/ethereum"
	EtherscanAddressUrl = "https://etherscan.io/address"
	IpfsGatewayUrl      = "https://gateway.autonolas.tech/ipfs"
)

// Missing is recorded for owner and hash when their tooltip never appeared.
const Missing = "N/A"

// AgentRecord is one row of the registry's agents table. ID is the natural key.
type AgentRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Hash      string `json:"hash"`
	AgentUrl  string `json:"agent_url"`
	OwnerLink string `json:"owner_link"`
	HashLink  string `json:"hash_link"`
}

// AgentsUrl is the listing page of a registry.
func AgentsUrl(registryBase string) string {
	return strings.TrimRight(registryBase, "/") + "/agents"
}

func AgentUrl(registryBase, id string) string {
	return fmt.Sprintf("%s/%s", AgentsUrl(registryBase), id)
}

func OwnerLink(owner string) string {
	return fmt.Sprintf("%s/%s", EtherscanAddressUrl, strings.TrimSpace(owner))
}

func HashLink(hash string) string {
	return fmt.Sprintf("%s/%s", IpfsGatewayUrl, strings.TrimSpace(hash))
}

// NewAgentRecord builds a record and derives its links from the fixed url
// templates.
func NewAgentRecord(registryBase, id, name, owner, hash string) AgentRecord {
	return AgentRecord{
		ID:        id,
		Name:      name,
		Owner:     owner,
		Hash:      hash,
		AgentUrl:  AgentUrl(registryBase, id),
		OwnerLink: OwnerLink(owner),
		HashLink:  HashLink(hash),
	}
}

// HasHash reports whether the record carries a usable content hash.
func (r AgentRecord) HasHash() bool {
	hash := strings.TrimSpace(r.Hash)
	return hash != "" && hash != Missing
}
