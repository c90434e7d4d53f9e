package firestore

const (
	// https://firebase.google.com/docs/firestore/manage-data/transactions#batched-writes
	maxBulkWriteSize = 500

	collectionWatermark       = "sybelProductionRefresh"
	collectionListen          = "listeningAnalytics"
	collectionPodcast         = "mintedPodcast"
	collectionWallet          = "wallet"
	collectionConsumedContent = "consumedContentUnit"
	collectionSettlement      = "settlementIntent"

	storageTypeTag = "storage_type"
	storageType    = "firestore"
)
