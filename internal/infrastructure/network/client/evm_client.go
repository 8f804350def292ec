package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"position_tracker/internal/app/port"
	"position_tracker/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// EVMClient implements the port.BlockchainClient interface for EVM-compatible chains.
// It resolves ERC-20 token metadata via batched eth_call requests and caches
// resolved entries for the lifetime of the client.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration

	metaMu    sync.RWMutex
	metaCache map[string]entity.TokenMetadata
}

// ERC20 ABI minimal part for symbol and decimals
const erc20MetaABI = `[{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"}]`

var (
	parsedMetaABI    abi.ABI
	parsedMetaOnce   sync.Once
	symbolMethodID   []byte
	decimalsMethodID []byte
)

func initParsedMetaABI() {
	parsedMetaOnce.Do(func() {
		var err error
		parsedMetaABI, err = abi.JSON(strings.NewReader(erc20MetaABI))
		if err != nil {
			// This is a critical error during initialization, panic is appropriate
			panic(fmt.Sprintf("failed to parse ERC20 metadata ABI: %v", err))
		}
		symbolMethod, ok := parsedMetaABI.Methods["symbol"]
		if !ok {
			panic("symbol method not found in parsed ERC20 ABI")
		}
		symbolMethodID = symbolMethod.ID
		decimalsMethod, ok := parsedMetaABI.Methods["decimals"]
		if !ok {
			panic("decimals method not found in parsed ERC20 ABI")
		}
		decimalsMethodID = decimalsMethod.ID
	})
}

// NewEVMClient creates a new EVM client for the given network definition.
func NewEVMClient(netDef entity.NetworkDefinition, connectionTimeout time.Duration, rpcCallTimeout time.Duration) (port.BlockchainClient, error) {
	initParsedMetaABI()
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		ethClient, err := ethclient.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			return &EVMClient{
				ethClient:      ethClient,
				netDef:         netDef,
				rpcCallTimeout: rpcCallTimeout,
				metaCache:      make(map[string]entity.TokenMetadata),
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// GetTokenMetadata resolves symbol and decimals for the given token addresses
// using a single JSON-RPC batch request. Tokens that fail to decode are left
// out of the result rather than failing the batch.
func (c *EVMClient) GetTokenMetadata(ctx context.Context, tokenAddresses []string) (map[string]entity.TokenMetadata, error) {
	result := make(map[string]entity.TokenMetadata, len(tokenAddresses))

	var missing []string
	c.metaMu.RLock()
	for _, addr := range tokenAddresses {
		key := strings.ToLower(addr)
		if meta, ok := c.metaCache[key]; ok {
			result[key] = meta
		} else {
			missing = append(missing, key)
		}
	}
	c.metaMu.RUnlock()

	if len(missing) == 0 {
		return result, nil
	}

	// Two eth_call elements per token: symbol() and decimals().
	batchElems := make([]rpc.BatchElem, 0, len(missing)*2)
	for _, addr := range missing {
		to := common.HexToAddress(addr)
		batchElems = append(batchElems, rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{map[string]interface{}{"to": to, "data": hexutil.Bytes(symbolMethodID)}, "latest"},
			Result: new(hexutil.Bytes),
		})
		batchElems = append(batchElems, rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{map[string]interface{}{"to": to, "data": hexutil.Bytes(decimalsMethodID)}, "latest"},
			Result: new(hexutil.Bytes),
		})
	}

	rpcCallCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	rawRPCClient := c.ethClient.Client()
	if err := rawRPCClient.BatchCallContext(rpcCallCtx, batchElems); err != nil {
		return nil, fmt.Errorf("RPC batch call failed on %s: %w", c.netDef.Name, err)
	}

	for i, addr := range missing {
		symbolElem := batchElems[i*2]
		decimalsElem := batchElems[i*2+1]
		if symbolElem.Error != nil || decimalsElem.Error != nil {
			continue
		}

		symbol, ok := decodeSymbol(symbolElem.Result)
		if !ok {
			continue
		}
		decimals, ok := decodeDecimals(decimalsElem.Result)
		if !ok {
			continue
		}

		meta := entity.TokenMetadata{Address: addr, Symbol: symbol, Decimals: decimals}
		result[addr] = meta

		c.metaMu.Lock()
		c.metaCache[addr] = meta
		c.metaMu.Unlock()
	}

	return result, nil
}

func decodeSymbol(raw interface{}) (string, bool) {
	data, ok := raw.(*hexutil.Bytes)
	if !ok || data == nil || len(*data) == 0 {
		return "", false
	}
	unpacked, err := parsedMetaABI.Unpack("symbol", *data)
	if err != nil || len(unpacked) == 0 {
		return "", false
	}
	symbol, ok := unpacked[0].(string)
	return symbol, ok
}

func decodeDecimals(raw interface{}) (uint8, bool) {
	data, ok := raw.(*hexutil.Bytes)
	if !ok || data == nil || len(*data) == 0 {
		return 0, false
	}
	unpacked, err := parsedMetaABI.Unpack("decimals", *data)
	if err != nil || len(unpacked) == 0 {
		return 0, false
	}
	decimals, ok := unpacked[0].(uint8)
	return decimals, ok
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}
