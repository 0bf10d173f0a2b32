package graphql

// Documentos GraphQL del servidor de logística.

const stockFields = `
    itemId
    locationId
    stock
    consumption
    movementIn
    movementOut
    supply
    missingCount
    status
    unit
    name
    locationName
    itemGroup { id name }`

const allStockQuery = `query AllStock($eventId: ID!) {
  event(id: $eventId) {
    __typename
    ... on Event {
      stock {` + stockFields + `
      }
    }
  }
}`

const allItemsQuery = `query AllItems($eventId: ID!) {
  event(id: $eventId) {
    __typename
    ... on Event {
      items {
        edges { node { id name unit itemGroup { id name } } }
      }
    }
  }
}`

const locationsQuery = `query Locations($eventId: ID!) {
  event(id: $eventId) {
    __typename
    ... on Event {
      locations {
        edges { node { id externalId name } }
      }
    }
  }
}`

const locationStockQuery = `query LocationStock($locationId: ID!) {
  locationStock(locationId: $locationId) {` + stockFields + `
  }
}`

const eventLocationQuery = `query EventLocation($externalId: ID!) {
  eventLocation(externalId: $externalId) { id name }
}`

const relocateMutation = `mutation Relocate($input: RelocateInput!) {
  relocate(input: $input) { messages { field message } }
}`

const consumeMutation = `mutation Consume($input: ConsumeInput!) {
  consume(input: $input) { messages { field message } }
}`

// supplyMutation entrada desde fuera del sistema. El servidor de logística debe exponer
// esta mutación; no hay equivalente en las operaciones de traslado o consumo.
const supplyMutation = `mutation Supply($input: SupplyInput!) {
  supply(input: $input) { messages { field message } }
}`

const movementSubscription = `subscription MovementEvents($locationId: ID) {
  movements(locationId: $locationId) { id }
}`
