package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Subsets of the deployed contracts ABIs, restricted to what the pipeline calls or listens to.
const (
	rewarderABIJSON = `[
	{"type":"function","name":"payUser","stateMutability":"nonpayable","inputs":[{"name":"listener","type":"address"},{"name":"podcastIds","type":"uint256[]"},{"name":"listenCounts","type":"uint256[]"}],"outputs":[]}
]`

	minterABIJSON = `[
	{"type":"function","name":"addPodcast","stateMutability":"nonpayable","inputs":[{"name":"creator","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"mintFraction","stateMutability":"nonpayable","inputs":[{"name":"id","type":"uint256"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"event","name":"PodcastMinted","anonymous":false,"inputs":[{"name":"baseId","type":"uint256","indexed":false},{"name":"owner","type":"address","indexed":true}]}
]`

	fractionCostBadgesABIJSON = `[
	{"type":"function","name":"getBadge","stateMutability":"view","inputs":[{"name":"fractionId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"updateBadge","stateMutability":"nonpayable","inputs":[{"name":"fractionId","type":"uint256"},{"name":"badge","type":"uint256"}],"outputs":[]}
]`

	internalTokensABIJSON = `[
	{"type":"function","name":"supplyOf","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"TransferSingle","anonymous":false,"inputs":[{"name":"operator","type":"address","indexed":true},{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"id","type":"uint256","indexed":false},{"name":"value","type":"uint256","indexed":false}]},
	{"type":"event","name":"SupplyUpdated","anonymous":false,"inputs":[{"name":"id","type":"uint256","indexed":true},{"name":"supply","type":"uint256","indexed":false}]}
]`
)

const (
	methodPayUser      = "payUser"
	methodAddPodcast   = "addPodcast"
	methodMintFraction = "mintFraction"
	methodGetBadge     = "getBadge"
	methodUpdateBadge  = "updateBadge"
	methodSupplyOf     = "supplyOf"

	eventPodcastMinted  = "PodcastMinted"
	eventTransferSingle = "TransferSingle"
	eventSupplyUpdated  = "SupplyUpdated"
)

var (
	rewarderABI           = mustParseABI(rewarderABIJSON)
	minterABI             = mustParseABI(minterABIJSON)
	fractionCostBadgesABI = mustParseABI(fractionCostBadgesABIJSON)
	internalTokensABI     = mustParseABI(internalTokensABIJSON)

	podcastMintedTopic  = minterABI.Events[eventPodcastMinted].ID
	transferSingleTopic = internalTokensABI.Events[eventTransferSingle].ID
	supplyUpdatedTopic  = internalTokensABI.Events[eventSupplyUpdated].ID

	zeroAddressTopic = common.Hash{}
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}

	return parsed
}
